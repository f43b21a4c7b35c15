// Package game contains communication structures for the game runner, lobby, and socket to use.
package game

import "fmt"

type (
	// ID is the id of a game.
	ID int

	// Config is the set of options a game is created with.
	Config struct {
		// MaxPlayers is the number of players that can join the game before it starts.
		MaxPlayers int `json:"maxPlayers,omitempty"`
		// CheckSuffixes is a flag to disallow words that only add an "s" or "ed" to a word another player already made.
		CheckSuffixes bool `json:"checkSuffixes,omitempty"`
	}
)

// Rules gets the rules for the game.  Extra rules are added for customized configurations.
func (cfg Config) Rules() []string {
	rules := []string{
		"Create or join a game from the Lobby after refreshing the games list.",
		"Any player can join a game that is not started, but active games can only be joined by players who started in them.",
		"After all players have joined the game, click the Start button to start the game.",
		"Make an English word from the letters in the pool, optionally combined with one word any player has already made.  Stolen words transfer to you.",
		"Each word scores the sum of its letter values when it is made.",
		"Click the Pass button when you see no word to make.  When every player has passed, a new letter is turned over from the bag.",
		"When the bag is empty and every player passes, the game ends.  Players score their held words a second time and the highest total wins.",
	}
	if cfg.CheckSuffixes {
		rules = append(rules, `Words that only add an "s" or "ed" to an existing word are not allowed.`)
	}
	if cfg.MaxPlayers > 0 {
		rules = append(rules, fmt.Sprintf("At most %d players can join the game.", cfg.MaxPlayers))
	}
	return rules
}
