// Package lobby handles players connecting to games and routing messages between them.
package lobby

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/jacobpatterson1549/grab/game"
	"github.com/jacobpatterson1549/grab/game/message"
	"github.com/jacobpatterson1549/grab/game/player"
)

type (
	// Lobby is the place users can create, join, and play games.
	Lobby struct {
		socketRunner Runner
		gameRunner   Runner
		// games maps game ids to the last known info of each game.
		games map[game.ID]game.Info
		// socketMessages is the channel for sending messages to the socket runner.
		socketMessages chan message.Message
		// gameMessages is the channel for sending messages to the game runner.
		gameMessages chan message.Message
		Config
	}

	// Config contains the properties to create a lobby.
	Config struct {
		// Debug is a flag that causes the lobby to log the types messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log *log.Logger
	}

	// Runner indefinitely consumes messages from an in channel, emitting messages on the returned out channel.
	Runner interface {
		Run(ctx context.Context, in <-chan message.Message) <-chan message.Message
	}
)

// NewLobby creates a new lobby to route messages between the socket runner and the game runner.
func (cfg Config) NewLobby(socketRunner, gameRunner Runner) (*Lobby, error) {
	if err := cfg.validate(socketRunner, gameRunner); err != nil {
		return nil, fmt.Errorf("creating lobby: validation: %w", err)
	}
	l := Lobby{
		socketRunner: socketRunner,
		gameRunner:   gameRunner,
		games:        make(map[game.ID]game.Info),
		Config:       cfg,
	}
	return &l, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(socketRunner, gameRunner Runner) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case socketRunner == nil:
		return fmt.Errorf("socket runner required")
	case gameRunner == nil:
		return fmt.Errorf("game runner required")
	}
	return nil
}

// Run starts the lobby and its runners.  The lobby runs until the context is cancelled.
func (l *Lobby) Run(ctx context.Context) {
	l.socketMessages = make(chan message.Message)
	l.gameMessages = make(chan message.Message)
	socketMessagesOut := l.socketRunner.Run(ctx, l.socketMessages)
	gameMessagesOut := l.gameRunner.Run(ctx, l.gameMessages)
	go func() { // BLOCKING
		defer close(l.socketMessages)
		defer close(l.gameMessages)
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-socketMessagesOut:
				l.handleSocketMessage(ctx, m)
			case m := <-gameMessagesOut:
				l.handleGameMessage(ctx, m)
			}
		}
	}()
}

// AddUser adds a user to the lobby.  The user's http request is upgraded to a websocket.
func (l *Lobby) AddUser(username string, w http.ResponseWriter, r *http.Request) error {
	result := make(chan error)
	pn := player.Name(username)
	m := message.Message{
		Type:       message.SocketAdd,
		PlayerName: pn,
		Socket: &message.Socket{
			Type:           message.SocketAdd,
			PlayerName:     pn,
			Result:         result,
			ResponseWriter: w,
			Request:        r,
		},
	}
	l.socketMessages <- m
	if err := <-result; err != nil {
		return fmt.Errorf("adding user to lobby: %w", err)
	}
	return nil
}

// RemoveUser removes all sockets for the user from the lobby and games in the lobby.
func (l *Lobby) RemoveUser(username string) {
	m := message.Message{
		Type:       message.PlayerRemove,
		PlayerName: player.Name(username),
	}
	l.socketMessages <- m
}

// handleSocketMessage sends the message from the socket runner to the game runner.
// New sockets are greeted with the infos of all games.
func (l *Lobby) handleSocketMessage(ctx context.Context, m message.Message) {
	if l.Debug {
		l.Log.Printf("lobby reading socket message with type %v", m.Type)
	}
	switch m.Type {
	case message.SocketAdd:
		l.sendGameInfosToSocket(ctx, m)
	default:
		message.Send(m, l.gameMessages, l.Debug, l.Log)
	}
}

// handleGameMessage sends the message from the game runner to the socket runner, tracking changed game infos.
func (l *Lobby) handleGameMessage(ctx context.Context, m message.Message) {
	if l.Debug {
		l.Log.Printf("lobby reading game message with type %v", m.Type)
	}
	switch m.Type {
	case message.GameInfos:
		l.handleGameInfoChanged(ctx, m)
	default:
		message.Send(m, l.socketMessages, l.Debug, l.Log)
	}
}

// sendGameInfosToSocket sends the infos of all games to the single socket named in the message.
func (l *Lobby) sendGameInfosToSocket(ctx context.Context, m message.Message) {
	m2 := message.Message{
		Type:       message.GameInfos,
		PlayerName: m.PlayerName,
		Addr:       m.Addr,
		Games:      l.gameInfos(),
	}
	message.Send(m2, l.socketMessages, l.Debug, l.Log)
}

// handleGameInfoChanged updates the game info for the game in the message, telling all sockets about the change.
func (l *Lobby) handleGameInfoChanged(ctx context.Context, m message.Message) {
	if m.Game == nil {
		l.Log.Printf("no game info in message: %v", m)
		m2 := message.Message{
			Type:       message.SocketError,
			PlayerName: m.PlayerName,
			Info:       "could not update game info",
		}
		message.Send(m2, l.socketMessages, l.Debug, l.Log)
		return
	}
	switch m.Game.Status {
	case game.Deleted:
		delete(l.games, m.Game.ID)
	default:
		l.games[m.Game.ID] = *m.Game
	}
	m2 := message.Message{
		Type:  message.GameInfos,
		Games: l.gameInfos(),
	}
	message.Send(m2, l.socketMessages, l.Debug, l.Log)
}

// gameInfos computes the sorted list of the infos for all games in the lobby.
func (l *Lobby) gameInfos() []game.Info {
	infos := make([]game.Info, 0, len(l.games))
	for _, info := range l.games {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}
