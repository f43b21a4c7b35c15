package game

import "fmt"

type (
	// Info contains information about a game.
	Info struct {
		// ID is unique among the other games that currently exist.
		ID ID `json:"id,omitempty"`
		// Status is the state of the game.
		Status Status `json:"status,omitempty"`
		// Players lists the players in the game in the order they joined, which is also the order the rules engine scores them in.
		Players []PlayerInfo `json:"players,omitempty"`
		// Capacity is the maximum number of players that can join the game.
		Capacity int `json:"capacity,omitempty"`
		// PoolLetters is the letters every player can currently use, in alphabetical order.
		PoolLetters string `json:"poolLetters,omitempty"`
		// BagLeft is the number of letters left that have not been turned over.
		BagLeft int `json:"bagLeft,omitempty"`
		// CreatedAt is the game's creation time in seconds since the unix epoch.
		CreatedAt int64 `json:"createdAt,omitempty"`
		// Config is the specific options used to create the game.
		Config *Config `json:"config,omitempty"`
	}

	// PlayerInfo is the view of one player in a game.
	PlayerInfo struct {
		// Name is the player's name.
		Name string `json:"name"`
		// Words is the words the player currently holds, in the order they were made.
		Words []string `json:"words,omitempty"`
		// Score is the player's cumulative score.
		Score int `json:"score,omitempty"`
		// Passed indicates that the player has passed this round.
		Passed bool `json:"passed,omitempty"`
	}
)

// CanJoin indicates whether or not a player can join the game.
// Players can only join games that are not started and have room, or that they were previously a part of.
func (i Info) CanJoin(playerName string) bool {
	for _, p := range i.Players {
		if p.Name == playerName {
			return true
		}
	}
	return i.Status == NotStarted && len(i.Players) < i.Capacity
}

// CapacityRatio is the max-player-annotated player count, such as 2/4.
func (i Info) CapacityRatio() string {
	return fmt.Sprintf("%v/%v", len(i.Players), i.Capacity)
}
