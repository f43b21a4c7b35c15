package message

import (
	"math/rand"
	"net/http"

	"github.com/jacobpatterson1549/grab/game/player"
	"github.com/jacobpatterson1549/grab/server/log"
)

// Socket is used by the server lobby to ask the socket runner to change sockets.
type Socket struct {
	Type       Type
	PlayerName player.Name
	Result     chan<- error
	http.ResponseWriter
	*http.Request
}

// sendDebugID identifies a Send call in debug logs.  Tests pin it.
var sendDebugID = rand.Int

// Send is a utility function for sending messages on out.
// When debugging, it prints a message before and after the message is sent to help identify deadlocks.
func Send(m Message, out chan<- Message, debug bool, log log.Logger) {
	if debug {
		id := sendDebugID()
		log.Printf("[id: %v] sending message: %v", id, m)
		defer log.Printf("[id: %v] message sent", id)
	}
	out <- m
}
