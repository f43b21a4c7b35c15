// Package grab implements the rules engine for the grab game.
// Players build words from a shared letter pool, optionally consuming one previously built word, theirs or an opponent's.
// Every operation takes a State and returns a new State; a State is never mutated after it is created.
package grab

import (
	"fmt"

	"github.com/jacobpatterson1549/grab/game/letters"
)

// State is the authoritative snapshot of a game between actions.
type State struct {
	// NumPlayers is the number of players, fixed for the life of the game.
	NumPlayers int
	// WordsPerPlayer holds each player's currently-held words in the order they were made.
	WordsPerPlayer [][]letters.Word
	// Pool counts the letters available to every player right now.
	Pool letters.Counts
	// Bag counts the letters that have not been drawn yet.
	Bag letters.Counts
	// Scores holds each player's cumulative score.  Scores never decrease.
	Scores []int
	// Passed flags the players that have declared they are done for the round.
	Passed []bool
	// NextLetters predetermines upcoming draws, front first.  Draws fall back to random sampling once it is exhausted.
	NextLetters []rune
	// Finished is set by the end-game transition.  Operations on a finished state fail.
	Finished bool
}

// DefaultBagLetters is the standard 98-letter bag, each letter occurring once per tile of the standard distribution.
const DefaultBagLetters = "aaaaaaaaabbccddddeeeeeeeeeeeeffggghhiiiiiiiiijkllllmmnnnnnnooooooooppqrrrrrrssssttttttuuuuvvwwxyyz"

// NewState creates the state for the start of a game: empty words and pool, a full bag, zero scores, and no passes.
// The optional nextLetters predetermine upcoming draws, primarily for reproducible tests.
func NewState(numPlayers int, bagLetters string, nextLetters ...rune) (*State, error) {
	if numPlayers < 1 {
		return nil, fmt.Errorf("at least one player required, got %v", numPlayers)
	}
	if len(bagLetters) == 0 {
		bagLetters = DefaultBagLetters
	}
	bag, err := letters.NewCounts(bagLetters)
	if err != nil {
		return nil, fmt.Errorf("creating bag: %w", err)
	}
	s := State{
		NumPlayers:     numPlayers,
		WordsPerPlayer: make([][]letters.Word, numPlayers),
		Bag:            bag,
		Scores:         make([]int, numPlayers),
		Passed:         make([]bool, numPlayers),
		NextLetters:    append([]rune(nil), nextLetters...),
	}
	return &s, nil
}

// copy creates a structural copy of the state that shares no mutable data with the original.
// Nil slices stay nil so a copy and its original compare deeply equal.
func (s State) copy() *State {
	s2 := s
	s2.WordsPerPlayer = make([][]letters.Word, len(s.WordsPerPlayer))
	for i, words := range s.WordsPerPlayer {
		s2.WordsPerPlayer[i] = append([]letters.Word(nil), words...)
	}
	s2.Scores = append([]int(nil), s.Scores...)
	s2.Passed = append([]bool(nil), s.Passed...)
	s2.NextLetters = append([]rune(nil), s.NextLetters...)
	return &s2
}

// allPassed determines whether every player has passed.
func (s State) allPassed() bool {
	for _, p := range s.Passed {
		if !p {
			return false
		}
	}
	return true
}

// LetterSum computes the total number of letters in the bag, the pool, and every player's words.
// It is constant over the life of a game: letters move, they are never created or destroyed.
func (s State) LetterSum() int {
	sum := s.Bag.Sum() + s.Pool.Sum()
	for _, words := range s.WordsPerPlayer {
		for _, w := range words {
			sum += w.Counts.Sum()
		}
	}
	return sum
}
