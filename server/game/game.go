// Package game controls the logic to run the game.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jacobpatterson1549/grab/game"
	"github.com/jacobpatterson1549/grab/game/grab"
	"github.com/jacobpatterson1549/grab/game/message"
	"github.com/jacobpatterson1549/grab/game/player"
	"github.com/jacobpatterson1549/grab/game/word"
)

type (
	// Game runs a word-grabbing game between users.
	// It wraps a rules engine, owning the current game state and the mapping of player names to engine player indexes.
	Game struct {
		id        game.ID
		createdAt int64
		status    game.Status
		// players are stored in join order, which is also the order the engine scores them in.
		players []player.Name
		engine  *grab.Grab
		state   *grab.State
		UserDao
		Config
	}

	// Config contains the properties to create similar games.
	Config struct {
		// Debug is a flag that causes the game to log the types messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log *log.Logger
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used for the created at timestamp.
		TimeFunc func() int64
		// BagLetters is a string of all the lower case letters that can be turned over in the game.
		// If not specified, the default 98 letters will be used.
		// If a letter should be turned over multiple times, it must be present multiple times.
		// For example, the BagLetters "aabccc" will be used to initialize a game with two As, 1 B, and 3 Cs.
		BagLetters string
		// WordChecker is used to validate players' words when they try to make them.
		WordChecker word.Checker
		// IdlePeriod is the amount of time that can pass between messages before the game is idle and will delete itself.
		IdlePeriod time.Duration
		// RandIndex returns a uniform random int in [0,n).  It determines which letters are turned over from the bag.
		RandIndex func(n int) int
		// Config is the nested configuration for the specific game
		game.Config
	}

	// messageHandler is a function which handles message.Messages, returning responses to the output channel.
	messageHandler func(ctx context.Context, m message.Message, send messageSender) error

	// UserDao makes changes to the stored state of users in the game
	UserDao interface {
		// UpdatePointsIncrement adds the points to the stored total of each named user
		UpdatePointsIncrement(ctx context.Context, userPoints map[string]int) error
	}

	// messageSender is a function that sends a message somewhere.
	messageSender func(m message.Message)
)

// gameWarningNotInProgress is a shared warning to alert users of an invalid game state.
const gameWarningNotInProgress gameWarning = "game has not started or is finished"

// NewGame creates a new game.
func (cfg Config) NewGame(id game.ID, ud UserDao) (*Game, error) {
	if err := cfg.validate(id, ud); err != nil {
		return nil, fmt.Errorf("creating game: validation: %w", err)
	}
	if len(cfg.BagLetters) == 0 {
		cfg.BagLetters = grab.DefaultBagLetters
	}
	engineCfg := grab.Config{
		WordChecker:   cfg.WordChecker,
		CheckSuffixes: cfg.CheckSuffixes,
		RandIndex:     cfg.RandIndex,
	}
	engine, err := engineCfg.NewGrab()
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	g := Game{
		id:        id,
		createdAt: cfg.TimeFunc(),
		status:    game.NotStarted,
		engine:    engine,
		UserDao:   ud,
		Config:    cfg,
	}
	return &g, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(id game.ID, ud UserDao) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case id <= 0:
		return fmt.Errorf("positive id required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case ud == nil:
		return fmt.Errorf("user dao required")
	case cfg.MaxPlayers <= 0:
		return fmt.Errorf("positive max player count required")
	case cfg.WordChecker == nil:
		return fmt.Errorf("word checker required")
	case cfg.RandIndex == nil:
		return fmt.Errorf("random index func required")
	case cfg.IdlePeriod <= 0:
		return fmt.Errorf("positive idle period required")
	}
	return nil
}

// Run runs the game asynchronously until the context is closed.
func (g *Game) Run(ctx context.Context, in <-chan message.Message, out chan<- message.Message) {
	idleTicker := time.NewTicker(g.IdlePeriod)
	active := false
	messageSender := g.sendMessage(out)
	messageHandlers := map[message.Type]messageHandler{
		message.JoinGame:         g.handleGameJoin,
		message.DeleteGame:       g.handleGameDelete,
		message.ChangeGameStatus: g.handleGameStatusChange,
		message.MakeGameWord:     g.handleGameWord,
		message.PassGameRound:    g.handleGamePass,
		message.DrawGameLetters:  g.handleGameDraw,
		message.GameChat:         g.handleGameChat,
	}
	go func() {
		for { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				g.handleMessage(ctx, m, messageSender, &active, messageHandlers)
				if m.Type == message.DeleteGame {
					return
				}
			case <-idleTicker.C:
				var m message.Message
				if !active {
					g.Log.Printf("deleted game %v due to inactivity", g.id)
					g.handleGameDelete(ctx, m, messageSender)
					return
				}
				active = false
			}
		}
	}()
}

// sendMessage creates a messageSender that adds the gameId to the message before sending it on the out channel.
func (g *Game) sendMessage(out chan<- message.Message) messageSender {
	return func(m message.Message) {
		if m.Game == nil {
			var g game.Info
			m.Game = &g
		}
		m.Game.ID = g.id
		out <- m
	}
}

// handleMessage handles the message with the appropriate message handler.
func (g *Game) handleMessage(ctx context.Context, m message.Message, send messageSender, active *bool, messageHandlers map[message.Type]messageHandler) {
	if g.Debug {
		g.Log.Printf("game reading message with type %v", m.Type)
	}
	var err error
	if mh, ok := messageHandlers[m.Type]; !ok {
		err = fmt.Errorf("game does not know how to handle MessageType %v", m.Type)
	} else if _, ok := g.playerIndex(m.PlayerName); !ok && m.Type != message.JoinGame {
		err = fmt.Errorf("game does not have player named '%v'", m.PlayerName)
	} else {
		err = mh(ctx, m, send)
		*active = true
	}
	if err != nil {
		var mt message.Type
		switch err.(type) {
		case gameWarning:
			mt = message.SocketWarning
		default:
			mt = message.SocketError
			g.Log.Printf("game error: %v", err)
		}
		m := message.Message{
			Type:       mt,
			PlayerName: m.PlayerName,
			Info:       err.Error(),
		}
		send(m)
	}
}

// handleGameJoin adds the player from the message to the game.
func (g *Game) handleGameJoin(ctx context.Context, m message.Message, send messageSender) error {
	_, ok := g.playerIndex(m.PlayerName)
	var err error
	switch {
	case ok:
		err = g.handleGameRefresh(ctx, m, send)
	case g.status != game.NotStarted:
		err = gameWarning("cannot join game that has been started")
	case len(g.players) >= g.MaxPlayers:
		err = gameWarning("no room for another player in game")
	default:
		err = g.handleAddPlayer(ctx, m, send)
	}
	if err != nil {
		// kick the player here, returning an error will not remove them from the game
		m := message.Message{
			Type:       message.LeaveGame,
			PlayerName: m.PlayerName,
		}
		send(m)
		return err
	}
	return nil
}

// handleAddPlayer adds the player to the game.
func (g *Game) handleAddPlayer(ctx context.Context, m message.Message, send messageSender) error {
	g.players = append(g.players, m.PlayerName)
	m2 := g.joinMessage(m.PlayerName, m.Addr)
	m2.Info = "joining game"
	send(m2)
	for _, n := range g.players {
		if n != m.PlayerName {
			m3 := message.Message{
				Type:       message.JoinGame,
				PlayerName: n,
				Info:       fmt.Sprintf("%v joined the game", m.PlayerName),
				Game:       g.info(),
			}
			send(m3)
		}
	}
	g.handleInfoChanged(send)
	return nil
}

// handleGameDelete sends game leave messages to all players in the game.
func (g *Game) handleGameDelete(ctx context.Context, m message.Message, send messageSender) error {
	for _, n := range g.players {
		m := message.Message{
			Type:       message.LeaveGame,
			PlayerName: n,
			Info:       "game deleted",
		}
		send(m)
	}
	g.status = game.Deleted
	g.handleInfoChanged(send)
	return nil
}

// handleGameStatusChange changes the status of the game.
// Only the start transition can be requested; games finish on their own when the bag empties and every player passes.
func (g *Game) handleGameStatusChange(ctx context.Context, m message.Message, send messageSender) error {
	switch g.status {
	case game.NotStarted:
		if err := g.handleGameStart(ctx, m, send); err != nil {
			return err
		}
	case game.InProgress:
		return gameWarning("the game finishes by itself when the bag is empty and every player passes")
	default:
		return fmt.Errorf("cannot change game state from %v", g.status)
	}
	g.handleInfoChanged(send)
	return nil
}

// handleGameStart creates the initial game state and starts the game.
func (g *Game) handleGameStart(ctx context.Context, m message.Message, send messageSender) error {
	if m.Game == nil || m.Game.Status != game.InProgress {
		return gameWarning("can only set game status to started")
	}
	s, err := grab.NewState(len(g.players), g.BagLetters)
	if err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	g.status = game.InProgress
	g.state = s
	info := fmt.Sprintf("%v started the game", m.PlayerName)
	g.broadcast(message.ChangeGameStatus, info, send)
	return nil
}

// handleGameWord makes a word for the player, telling all players what was made and what it consumed.
func (g *Game) handleGameWord(ctx context.Context, m message.Message, send messageSender) error {
	if g.status != game.InProgress {
		return gameWarningNotInProgress
	}
	pi, _ := g.playerIndex(m.PlayerName)
	move, s2, err := g.engine.ConstructMove(g.state, pi, m.Word)
	if err != nil {
		return engineError(err)
	}
	g.state = s2
	g.broadcast(message.MakeGameWord, g.moveInfo(m.PlayerName, *move), send)
	g.handleInfoChanged(send)
	return nil
}

// handleGamePass marks the player as passed for the round.
// When every player has passed, a letter is turned over, or the game ends if the bag is empty.
func (g *Game) handleGamePass(ctx context.Context, m message.Message, send messageSender) error {
	if g.status != game.InProgress {
		return gameWarningNotInProgress
	}
	pi, _ := g.playerIndex(m.PlayerName)
	s2, move, err := g.engine.HandleAction(g.state, pi, grab.Pass{})
	if err != nil {
		return engineError(err)
	}
	g.state = s2
	switch {
	case s2.Finished:
		g.handleGameFinish(ctx, send)
	case move != nil:
		dl := move.(grab.DrawLetters)
		info := fmt.Sprintf("every player passed, turned over %q", string(dl.Letters))
		g.broadcast(message.DrawGameLetters, info, send)
	default:
		g.broadcast(message.PassGameRound, fmt.Sprintf("%v passed", m.PlayerName), send)
	}
	g.handleInfoChanged(send)
	return nil
}

// handleGameDraw turns over letters from the bag at a player's request.
func (g *Game) handleGameDraw(ctx context.Context, m message.Message, send messageSender) error {
	if g.status != game.InProgress {
		return gameWarningNotInProgress
	}
	n := m.NumLetters
	if n <= 0 {
		n = 1
	}
	move, s2, err := g.engine.ConstructDrawLetters(g.state, n)
	if err != nil {
		return engineError(err)
	}
	g.state = s2
	info := fmt.Sprintf("%v turned over %q", m.PlayerName, string(move.Letters))
	g.broadcast(message.DrawGameLetters, info, send)
	g.handleInfoChanged(send)
	return nil
}

// handleGameFinish scores held words a final time, reports the winner, and persists player points.
func (g *Game) handleGameFinish(ctx context.Context, send messageSender) {
	g.status = game.Finished
	info := "game over, " + g.winnerInfo() + ".  Final scores are added to player points."
	if err := g.updateUserPoints(ctx); err != nil {
		info = err.Error()
	}
	g.broadcast(message.ChangeGameStatus, info, send)
}

// handleGameRefresh sends the game state back to the player.
func (g *Game) handleGameRefresh(ctx context.Context, m message.Message, send messageSender) error {
	send(g.joinMessage(m.PlayerName, m.Addr))
	return nil
}

// handleGameChat sends a chat message from a player to everyone in the game.
func (g *Game) handleGameChat(ctx context.Context, m message.Message, send messageSender) error {
	info := fmt.Sprintf("%v : %v", m.PlayerName, m.Info)
	for _, n := range g.players {
		m2 := message.Message{
			Type:       message.GameChat,
			PlayerName: n,
			Info:       info,
		}
		send(m2)
	}
	return nil
}

// updateUserPoints permanently adds each player's final score to their stored points.
func (g *Game) updateUserPoints(ctx context.Context) error {
	userPoints := make(map[string]int, len(g.players))
	for i, n := range g.players {
		userPoints[string(n)] = g.state.Scores[i]
	}
	return g.UserDao.UpdatePointsIncrement(ctx, userPoints)
}

// winnerInfo describes the highest-scoring players.
func (g Game) winnerInfo() string {
	best := 0
	for _, score := range g.state.Scores {
		if score > best {
			best = score
		}
	}
	var names []string
	for i, n := range g.players {
		if g.state.Scores[i] == best {
			names = append(names, string(n))
		}
	}
	if len(names) == 1 {
		return fmt.Sprintf("%v won with %v points", names[0], best)
	}
	return fmt.Sprintf("%v tied with %v points", strings.Join(names, " and "), best)
}

// moveInfo describes the word a player made and what it consumed.
func (g Game) moveInfo(pn player.Name, move grab.MakeWord) string {
	if len(move.UsedWords) == 0 {
		return fmt.Sprintf("%v made %q from the pool", pn, move.Word)
	}
	u := move.UsedWords[0]
	owner := g.players[u.Player]
	if owner == pn {
		return fmt.Sprintf("%v grew their %q into %q", pn, u.Word, move.Word)
	}
	return fmt.Sprintf("%v stole %v's %q to make %q", pn, owner, u.Word, move.Word)
}

// playerIndex gets the index of the named player in the game, which is also the player's index in the game state.
func (g Game) playerIndex(n player.Name) (int, bool) {
	for i, n2 := range g.players {
		if n2 == n {
			return i, true
		}
	}
	return -1, false
}

// broadcast sends every player a message of the type with the info text and the game's current state.
func (g Game) broadcast(t message.Type, info string, send messageSender) {
	for _, n := range g.players {
		m := message.Message{
			Type:       t,
			PlayerName: n,
			Info:       info,
			Game:       g.info(),
		}
		send(m)
	}
}

// handleInfoChanged sends the game's info in a message.
func (g Game) handleInfoChanged(send messageSender) {
	m := message.Message{
		Type: message.GameInfos,
		Game: g.info(),
	}
	send(m)
}

// joinMessage creates the message that has a player load the game.
func (g Game) joinMessage(pn player.Name, addr message.Addr) message.Message {
	i := g.info()
	i.Config = &g.Config.Config
	return message.Message{
		Type:       message.JoinGame,
		PlayerName: pn,
		Game:       i,
		Addr:       addr,
	}
}

// info creates a snapshot of the game for players and the lobby.
func (g Game) info() *game.Info {
	i := game.Info{
		ID:        g.id,
		Status:    g.status,
		Players:   g.playerInfos(),
		Capacity:  g.MaxPlayers,
		CreatedAt: g.createdAt,
	}
	if g.state != nil {
		i.PoolLetters = string(g.state.Pool.Expand())
		i.BagLeft = g.state.Bag.Sum()
	}
	return &i
}

// playerInfos creates the player views in join order.
func (g Game) playerInfos() []game.PlayerInfo {
	infos := make([]game.PlayerInfo, len(g.players))
	for i, n := range g.players {
		infos[i].Name = string(n)
		if g.state == nil {
			continue
		}
		for _, w := range g.state.WordsPerPlayer[i] {
			infos[i].Words = append(infos[i].Words, w.Text)
		}
		infos[i].Score = g.state.Scores[i]
		infos[i].Passed = g.state.Passed[i]
	}
	return infos
}

// engineError converts rule violations into warnings for the player that caused them.
func engineError(err error) error {
	switch {
	case errors.Is(err, grab.ErrInvalidCharacter),
		errors.Is(err, grab.ErrDisallowedWord),
		errors.Is(err, grab.ErrNoWordFound),
		errors.Is(err, grab.ErrInsufficientLetters):
		return gameWarning(err.Error())
	}
	return err
}
