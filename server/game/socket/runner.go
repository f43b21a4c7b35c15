package socket

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/jacobpatterson1549/grab/game"
	"github.com/jacobpatterson1549/grab/game/message"
	"github.com/jacobpatterson1549/grab/game/player"
)

type (
	// Runner handles sending messages to different sockets.
	// The runner allows for players to open multiple sockets, but multiple sockets cannot play in the same game before first leaving.
	Runner struct {
		upgrader      Upgrader
		playerSockets map[player.Name]map[message.Addr]chan<- message.Message
		playerGames   map[player.Name]map[game.ID]message.Addr
		socketOut     chan message.Message
		wg            sync.WaitGroup
		RunnerConfig
	}

	// RunnerConfig is used to create a socket Runner.
	RunnerConfig struct {
		// Log is used to log errors and other information
		Log *log.Logger
		// The maximum number of sockets.
		MaxSockets int
		// The maximum number of sockets each player can open.  Must be no more than maxSockets.
		MaxPlayerSockets int
		// The config for creating new sockets
		SocketConfig Config
	}

	// Upgrader turns a http request into a websocket.
	Upgrader interface {
		// Upgrade creates a Conn from the HTTP request.
		Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error)
	}
)

// NewRunner creates a new socket runner from the config.
func (cfg RunnerConfig) NewRunner() (*Runner, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating socket runner: validation: %w", err)
	}
	u := newGorillaUpgrader()
	r := Runner{
		upgrader:      u,
		playerSockets: make(map[player.Name]map[message.Addr]chan<- message.Message, cfg.MaxSockets),
		playerGames:   make(map[player.Name]map[game.ID]message.Addr),
		RunnerConfig:  cfg,
	}
	return &r, nil
}

// validate ensures the configuration has no errors.
func (cfg RunnerConfig) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.MaxPlayerSockets < 1:
		return fmt.Errorf("each player must be able to open at least one socket")
	case cfg.MaxSockets < cfg.MaxPlayerSockets:
		return fmt.Errorf("players cannot create more sockets than the runner allows")
	}
	return nil
}

// Run consumes messages from the message channel.  This channel is used to create sockets and send messages from the lobby to them.
// The messages received from sockets are sent on an "out" channel to be read by games.
func (r *Runner) Run(ctx context.Context, in <-chan message.Message) <-chan message.Message {
	r.socketOut = make(chan message.Message)
	out := make(chan message.Message)
	go func() {
		defer close(out)
		for { // BLOCKING
			select {
			case <-ctx.Done():
				r.wg.Wait()
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				r.handleLobbyMessage(ctx, m, out)
			case m := <-r.socketOut:
				r.handleSocketMessage(ctx, m, out)
			}
		}
	}()
	return out
}

// handleLobbyMessage writes the message to the appropriate sockets in the runner.
func (r *Runner) handleLobbyMessage(ctx context.Context, m message.Message, out chan<- message.Message) {
	switch m.Type {
	case message.GameInfos:
		r.sendGameInfos(ctx, m)
	case message.SocketError, message.SocketWarning:
		r.sendSocketError(ctx, m)
	case message.PlayerRemove:
		r.removePlayer(ctx, m)
	case message.SocketAdd:
		r.addSocket(ctx, m, out)
	case message.JoinGame:
		r.confirmGameJoin(ctx, m)
	default:
		r.sendMessageForGame(ctx, m)
	}
}

// handleSocketMessage forwards the socket message to the out channel after bookkeeping, dropping invalid messages.
func (r *Runner) handleSocketMessage(ctx context.Context, m message.Message, out chan<- message.Message) {
	switch {
	case len(m.PlayerName) == 0:
		r.Log.Printf("received message without player name: %v", m)
		return
	case len(m.Addr) == 0:
		r.Log.Printf("received message without player address for %v", m.PlayerName)
		return
	case !r.hasSocket(m.PlayerName, m.Addr):
		r.Log.Printf("received message from unknown socket for %v at %v", m.PlayerName, m.Addr)
		return
	}
	if m.Type == message.SocketClose {
		r.removeSocket(ctx, m)
		return
	}
	if m.Game == nil {
		r.Log.Printf("received message without game: %v", m)
		return
	}
	switch m.Type {
	case message.CreateGame, message.JoinGame:
		// the socket is not in the game yet, a join confirmation message adds it
	case message.LeaveGame:
		r.leaveGame(ctx, m)
		return
	default:
		if !r.inGame(m) {
			r.Log.Printf("player %v at %v not playing game %v", m.PlayerName, m.Addr, m.Game.ID)
			return
		}
	}
	out <- m
}

// addSocket upgrades the request in the message to a socket, reporting the result on the message's result channel.
// A confirmation message with the socket address is sent on the out channel so the lobby can greet the socket.
func (r *Runner) addSocket(ctx context.Context, m message.Message, out chan<- message.Message) {
	switch {
	case m.Socket == nil:
		r.Log.Printf("no socket request on message: %v", m)
		return
	case m.Socket.Result == nil:
		r.Log.Printf("no socket request result channel on message: %v", m)
		return
	}
	s, err := r.handleAddSocket(ctx, m.PlayerName, m.Socket.ResponseWriter, m.Socket.Request)
	m.Socket.Result <- err
	if err != nil {
		return
	}
	out <- message.Message{
		Type:       message.SocketAdd,
		PlayerName: m.PlayerName,
		Addr:       s.Addr,
	}
}

// handleAddSocket runs and adds a socket for the player to the runner.
func (r *Runner) handleAddSocket(ctx context.Context, pn player.Name, w http.ResponseWriter, req *http.Request) (*Socket, error) {
	if r.numSockets() >= r.MaxSockets {
		return nil, fmt.Errorf("no room for another socket")
	}
	if len(pn) == 0 {
		return nil, fmt.Errorf("player name required")
	}
	if len(r.playerSockets[pn]) >= r.MaxPlayerSockets {
		return nil, fmt.Errorf("player has reached quota of sockets, close an existing one")
	}
	conn, err := r.upgrader.Upgrade(w, req)
	if err != nil {
		return nil, fmt.Errorf("upgrading to websocket connection: %w", err)
	}
	s, err := r.SocketConfig.NewSocket(r.Log, pn, conn)
	if err != nil {
		return nil, fmt.Errorf("creating socket in runner: %v", err)
	}
	if r.hasSocket(pn, s.Addr) {
		return nil, fmt.Errorf("socket already exists with address of %v", s.Addr)
	}
	socketIn := make(chan message.Message)
	s.Run(ctx, &r.wg, socketIn, r.socketOut)
	playerSockets, ok := r.playerSockets[pn]
	switch {
	case ok:
		playerSockets[s.Addr] = socketIn
	default:
		r.playerSockets[pn] = map[message.Addr]chan<- message.Message{
			s.Addr: socketIn,
		}
	}
	return s, nil
}

// numSockets sums the number of sockets for each player.  Not thread safe.
func (r *Runner) numSockets() int {
	numSockets := 0
	for _, sockets := range r.playerSockets {
		numSockets += len(sockets)
	}
	return numSockets
}

// hasSocket determines if the player has a socket with the address.  Not thread safe.
func (r *Runner) hasSocket(pn player.Name, a message.Addr) bool {
	_, ok := r.playerSockets[pn][a]
	return ok
}

// inGame determines if the message's socket joined the game the message is for.
func (r *Runner) inGame(m message.Message) bool {
	addr, ok := r.playerGames[m.PlayerName][m.Game.ID]
	return ok && addr == m.Addr
}

// sendGameInfos sends the message with game infos to the single socket or all.
// When a socket is added, only it immediately needs game infos.  Otherwise, when any game info changes, all sockets must be notified.
func (r *Runner) sendGameInfos(ctx context.Context, m message.Message) {
	switch {
	case len(m.Addr) != 0:
		socketIn, ok := r.playerSockets[m.PlayerName][m.Addr]
		if !ok {
			r.Log.Printf("no socket for %v at %v", m.PlayerName, m.Addr)
			return
		}
		socketIn <- m
	default:
		// send to all sockets (likely game info change)
		for _, addrs := range r.playerSockets {
			for _, socketIn := range addrs {
				socketIn <- m
			}
		}
	}
}

// sendSocketError sends the message to the socket the player is playing the game on if possible, otherwise all the player's sockets.
func (r *Runner) sendSocketError(ctx context.Context, m message.Message) {
	if m.Game != nil {
		r.sendMessageForGame(ctx, m)
		return
	}
	for _, socketIn := range r.playerSockets[m.PlayerName] {
		socketIn <- m
	}
}

// confirmGameJoin registers the socket in the message as the socket the player plays the game on, then notifies it.
// If a different socket of the player is in the game, that socket leaves it.
func (r *Runner) confirmGameJoin(ctx context.Context, m message.Message) {
	if m.Game == nil || len(m.Addr) == 0 {
		r.Log.Printf("cannot confirm game join without game and address: %v", m)
		return
	}
	socketIn, ok := r.playerSockets[m.PlayerName][m.Addr]
	if !ok {
		r.Log.Printf("no socket for %v at %v to join game %v", m.PlayerName, m.Addr, m.Game.ID)
		return
	}
	games, ok := r.playerGames[m.PlayerName]
	if !ok {
		games = make(map[game.ID]message.Addr, 1)
		r.playerGames[m.PlayerName] = games
	}
	if addr2, ok := games[m.Game.ID]; ok && addr2 != m.Addr {
		m2 := message.Message{
			Type: message.LeaveGame,
			Info: "leaving game because it is being played on a different socket",
		}
		r.playerSockets[m.PlayerName][addr2] <- m2
	}
	// leave the game the socket was previously in
	for id, addr := range games {
		if addr == m.Addr {
			delete(games, id)
			break
		}
	}
	games[m.Game.ID] = m.Addr
	socketIn <- m
}

// sendMessageForGame sends the message to the socket the player plays the game on, if any.
func (r *Runner) sendMessageForGame(ctx context.Context, m message.Message) {
	if m.Game == nil {
		r.Log.Printf("no game to send message for in %v", m)
		return
	}
	if m.Type == message.LeaveGame {
		defer r.leaveGame(ctx, m)
	}
	addr, ok := r.playerGames[m.PlayerName][m.Game.ID]
	if !ok {
		return
	}
	socketIn, ok := r.playerSockets[m.PlayerName][addr]
	if !ok {
		r.Log.Printf("could not send game message to %v at %v: %v", m.PlayerName, addr, m)
		return
	}
	socketIn <- m
}

// leaveGame removes the player's socket from the game it is in.
func (r *Runner) leaveGame(ctx context.Context, m message.Message) {
	delete(r.playerGames[m.PlayerName], m.Game.ID)
	if len(r.playerGames[m.PlayerName]) == 0 {
		delete(r.playerGames, m.PlayerName)
	}
}

// removeSocket removes the socket from the runner and any game it is in.
func (r *Runner) removeSocket(ctx context.Context, m message.Message) {
	socketIn := r.playerSockets[m.PlayerName][m.Addr]
	delete(r.playerSockets[m.PlayerName], m.Addr)
	if len(r.playerSockets[m.PlayerName]) == 0 {
		delete(r.playerSockets, m.PlayerName)
	}
	for id, addr := range r.playerGames[m.PlayerName] {
		if addr == m.Addr {
			delete(r.playerGames[m.PlayerName], id)
		}
	}
	if len(r.playerGames[m.PlayerName]) == 0 {
		delete(r.playerGames, m.PlayerName)
	}
	if socketIn != nil {
		close(socketIn)
	}
}

// removePlayer removes all of the player's sockets and game registrations.
func (r *Runner) removePlayer(ctx context.Context, m message.Message) {
	addrs := r.playerSockets[m.PlayerName]
	delete(r.playerSockets, m.PlayerName)
	delete(r.playerGames, m.PlayerName)
	for _, socketIn := range addrs {
		socketIn <- m // tell the socket to close
		close(socketIn)
	}
}
