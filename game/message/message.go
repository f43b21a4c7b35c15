// Package message contains structures to pass between the ui and server.
package message

import (
	"github.com/jacobpatterson1549/grab/game"
	"github.com/jacobpatterson1549/grab/game/player"
)

type (
	// Type represents what the purpose of a message.
	Type int

	// Message contains information to or from a socket for a game/lobby.
	Message struct {
		// Type is the purpose of the message.
		Type Type `json:"type"`
		// Info is a message to show to the player.
		Info string `json:"info,omitempty"`
		// Word is the word a player wants to make, or the word a move made.
		Word string `json:"word,omitempty"`
		// NumLetters is the number of letters to turn over from the bag.
		NumLetters int `json:"numLetters,omitempty"`
		// Game is the info for the current game the player is in.
		Game *game.Info `json:"game,omitempty"`
		// Games contains the information about all the available games.
		Games []game.Info `json:"games,omitempty"`
		// PlayerName is the name of the player the message is to/from.
		PlayerName player.Name `json:"-"`
		// Socket is the request to change the player's sockets.  Only used on the server.
		Socket *Socket `json:"-"`
		// Addr is the socket remote address text the message is from.
		Addr Addr `json:"-"`
	}

	// Addr identifies the source of a message.
	Addr string
)

const (
	_ Type = iota
	// CreateGame is a Type that users send to open a new game.
	CreateGame
	// JoinGame is a Type that users send to join a game or the server sends to have the user load a game.
	JoinGame
	// LeaveGame is a Type that users and servers send to indicate that a user can no longer be in the current game.
	LeaveGame
	// DeleteGame is a Type that users send to remove a game from the server.
	DeleteGame
	// GameChat is a Type that users send to communicate with other players through the server.
	GameChat
	// ChangeGameStatus is a Type that users and servers send to request or inform of a game status change, such as starting the game.
	ChangeGameStatus
	// MakeGameWord is a Type that users send to make a word from the pool and an optional existing word.
	MakeGameWord
	// PassGameRound is a Type that users send when they see no word to make.
	PassGameRound
	// DrawGameLetters is a Type that the server sends to report letters turned over from the bag.
	DrawGameLetters
	// GameInfos is a Type that the server sends to report changes in the games in a lobby.
	GameInfos
	// SocketWarning is a Type that servers send to inform users that a request is invalid.
	SocketWarning
	// SocketError is a Type that servers send to users to report an unexpected state.
	SocketError
	// SocketHTTPPing is a Type the server sends to the user to request a http request to the site to keep it active.  Some environments shut down after a period of HTTP inactivity has passed.
	SocketHTTPPing
	// SocketAdd is used to add a socket for a player.
	SocketAdd
	// SocketClose is sent when the socket is closed.
	SocketClose
	// PlayerRemove is a Type that gets sent from the lobby to inform that all sockets should be removed.
	PlayerRemove // keep last for tests
)
