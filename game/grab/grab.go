package grab

import (
	"fmt"
	"strings"

	"github.com/jacobpatterson1549/grab/game/letters"
	"github.com/jacobpatterson1549/grab/game/word"
)

type (
	// Grab owns the game configuration and transforms States.
	// It holds no game state of its own, so one Grab can serve many games.
	Grab struct {
		letterScores [letters.NumLetters]int
		checker      word.Checker
		// checkSuffixes rejects words formed by appending "s" or "ed" to a shorter dictionary word.
		checkSuffixes bool
		randIndex     func(n int) int
	}

	// Config contains the properties to create a Grab engine.
	Config struct {
		// LetterScores is the point value of each letter, 'a' first.  If empty, standard Scrabble values are used.
		LetterScores []int
		// WordChecker is the dictionary predicate words are checked against.
		WordChecker word.Checker
		// CheckSuffixes enables the trivial-suffix policy: words that only append "s" or "ed" to a dictionary word are disallowed.
		CheckSuffixes bool
		// RandIndex returns a uniform random int in [0,n).  Used to draw letters once NextLetters is exhausted.
		RandIndex func(n int) int
	}
)

// ScrabbleLetterScores is the standard Scrabble point value of each letter, 'a' first.
var ScrabbleLetterScores = [letters.NumLetters]int{
	1, 3, 3, 2, 1, 4, 2, 4, 1, 8, 5, 1, 3, // a-m
	1, 1, 3, 10, 1, 1, 1, 1, 4, 4, 8, 4, 10, // n-z
}

// NewGrab creates a Grab engine from the config.
func (cfg Config) NewGrab() (*Grab, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating grab engine: validation: %w", err)
	}
	g := Grab{
		letterScores:  ScrabbleLetterScores,
		checker:       cfg.WordChecker,
		checkSuffixes: cfg.CheckSuffixes,
		randIndex:     cfg.RandIndex,
	}
	if len(cfg.LetterScores) != 0 {
		copy(g.letterScores[:], cfg.LetterScores)
	}
	return &g, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.WordChecker == nil:
		return fmt.Errorf("word checker required")
	case cfg.RandIndex == nil:
		return fmt.Errorf("random index func required")
	case len(cfg.LetterScores) != 0 && len(cfg.LetterScores) != letters.NumLetters:
		return fmt.Errorf("letter scores must be empty or a length-%v table, got length %v", letters.NumLetters, len(cfg.LetterScores))
	}
	return nil
}

// Score computes the point value of the counted letters.
func (g Grab) Score(c letters.Counts) int {
	score := 0
	for i, n := range c {
		score += n * g.letterScores[i]
	}
	return score
}

// ConstructMove builds the word for the player from the pool and at most one existing word, returning the move and the resulting state.
// The candidate contributions are tried in a fixed order: no word first, then every held word by player index and then insertion order.
// The first feasible candidate always wins, so the search is deterministic.
func (g Grab) ConstructMove(s *State, player int, wordText string) (*MakeWord, *State, error) {
	if err := checkPlayer(s, player); err != nil {
		return nil, nil, err
	}
	if s.Finished {
		return nil, nil, ErrGameFinished
	}
	wordText = strings.ToLower(wordText)
	target, err := letters.NewCounts(wordText)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCharacter, err)
	}
	if err := g.checkAllowed(wordText); err != nil {
		return nil, nil, err
	}
	// Feasibility short-circuit: no single-word candidate can succeed if even all words together with the pool cannot cover the target.
	totalAvailable := s.Pool
	for _, words := range s.WordsPerPlayer {
		for _, w := range words {
			totalAvailable = totalAvailable.Add(w.Counts)
		}
	}
	if !totalAvailable.Contains(target) {
		return nil, nil, fmt.Errorf("%w: cannot construct word %q", ErrNoWordFound, wordText)
	}
	if s.Pool.Contains(target) {
		return g.acceptMove(s, player, wordText, target, -1, -1, target)
	}
	for owner, words := range s.WordsPerPlayer {
		for i, w := range words {
			remaining, ok := target.Sub(w.Counts)
			if !ok {
				continue
			}
			if s.Pool.Contains(remaining) {
				return g.acceptMove(s, player, wordText, target, owner, i, remaining)
			}
		}
	}
	return nil, nil, fmt.Errorf("%w: cannot construct word %q", ErrNoWordFound, wordText)
}

// checkAllowed ensures the word is in the dictionary and not a trivial derivation of one.
func (g Grab) checkAllowed(wordText string) error {
	if !g.checker.Check(wordText) {
		return fmt.Errorf("%w: %q is not in the allowed word list", ErrDisallowedWord, wordText)
	}
	if g.checkSuffixes {
		for _, suffix := range []string{"s", "ed"} {
			base := strings.TrimSuffix(wordText, suffix)
			if len(base) < len(wordText) && len(base) >= 2 && g.checker.Check(base) {
				return fmt.Errorf("%w: %q only adds %q to %q", ErrDisallowedWord, wordText, suffix, base)
			}
		}
	}
	return nil
}

// acceptMove creates the MakeWord move and the state that results from it.
// The used word is identified by owner and index into the owner's word list; owner is negative if only pool letters are used.
// poolUsed is the letters the move takes from the pool; it is always covered by the pool when acceptMove is called.
func (g Grab) acceptMove(s *State, player int, wordText string, target letters.Counts, owner, ownerWordIndex int, poolUsed letters.Counts) (*MakeWord, *State, error) {
	move := MakeWord{
		Player:      player,
		Word:        wordText,
		PoolLetters: poolUsed.Expand(),
	}
	s2 := s.copy()
	if owner >= 0 {
		used := s2.WordsPerPlayer[owner][ownerWordIndex]
		move.UsedWords = []UsedWord{{Player: owner, Word: used.Text}}
		s2.WordsPerPlayer[owner] = append(
			s2.WordsPerPlayer[owner][:ownerWordIndex],
			s2.WordsPerPlayer[owner][ownerWordIndex+1:]...)
	}
	w, err := letters.NewWord(wordText)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCharacter, err)
	}
	s2.WordsPerPlayer[player] = append(s2.WordsPerPlayer[player], *w)
	pool, ok := s2.Pool.Sub(poolUsed)
	if !ok {
		return nil, nil, fmt.Errorf("pool does not cover letters for %q", wordText)
	}
	s2.Pool = pool
	s2.Scores[player] += g.Score(target)
	return &move, s2, nil
}

// ConstructDrawLetters moves n letters from the bag to the pool, returning the drawn letters and the resulting state.
// Predetermined letters from NextLetters are consumed first; remaining draws sample the bag uniformly without replacement.
// Drawing letters resets every player's passed flag.
func (g Grab) ConstructDrawLetters(s *State, n int) (*DrawLetters, *State, error) {
	switch {
	case s.Finished:
		return nil, nil, ErrGameFinished
	case n <= 0:
		return nil, nil, fmt.Errorf("%w: number of letters to draw must be positive, got %v", ErrInvalidArgument, n)
	case s.Bag.Sum() < n:
		return nil, nil, fmt.Errorf("%w: wanted to draw %v, bag has %v", ErrInsufficientLetters, n, s.Bag.Sum())
	}
	s2 := s.copy()
	drawn := make([]rune, 0, n)
	for len(drawn) < n {
		var r rune
		switch {
		case len(s2.NextLetters) > 0:
			r = s2.NextLetters[0]
			i, err := letters.Index(r)
			if err != nil || s2.Bag[i] == 0 {
				return nil, nil, fmt.Errorf("%w: predetermined letter %q is not in the bag", ErrInvalidArgument, r)
			}
			s2.NextLetters = s2.NextLetters[1:]
		default:
			r = drawRandomLetter(s2.Bag, g.randIndex(s2.Bag.Sum()))
		}
		i, _ := letters.Index(r)
		s2.Bag[i]--
		s2.Pool[i]++
		drawn = append(drawn, r)
	}
	for i := range s2.Passed {
		s2.Passed[i] = false
	}
	move := DrawLetters{
		Letters: drawn,
	}
	return &move, s2, nil
}

// drawRandomLetter finds the letter at the index among the letters remaining in the bag, counting alphabetically.
func drawRandomLetter(bag letters.Counts, index int) rune {
	for i, n := range bag {
		if index < n {
			return rune('a' + i)
		}
		index -= n
	}
	return 'z' // unreachable when index < bag.Sum()
}

// HandleAction runs the round state machine for the player's action.
// Words delegate to ConstructMove.  A pass marks the player done; when every player has passed,
// one letter is drawn if the bag has any, otherwise the game ends.
// The returned Move is nil when the action was a pass that did not trigger a draw.
func (g Grab) HandleAction(s *State, player int, action Action) (*State, Move, error) {
	if err := checkPlayer(s, player); err != nil {
		return nil, nil, err
	}
	if s.Finished {
		return nil, nil, ErrGameFinished
	}
	switch a := action.(type) {
	case Play:
		move, s2, err := g.ConstructMove(s, player, string(a))
		if err != nil {
			return nil, nil, err
		}
		return s2, *move, nil
	case Pass:
		s2 := s.copy()
		s2.Passed[player] = true
		if !s2.allPassed() {
			return s2, nil, nil
		}
		if s2.Bag.Sum() > 0 {
			move, s3, err := g.ConstructDrawLetters(s2, 1)
			if err != nil {
				return nil, nil, err
			}
			return s3, *move, nil
		}
		return g.EndGame(s2), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %T", ErrInvalidAction, action)
	}
}

// EndGame adds a closing bonus to each player's score for the words they still hold and marks the state finished.
func (g Grab) EndGame(s *State) *State {
	s2 := s.copy()
	for p, words := range s2.WordsPerPlayer {
		for _, w := range words {
			s2.Scores[p] += g.Score(w.Counts)
		}
	}
	s2.Finished = true
	return s2
}

// checkPlayer ensures the player index is valid for the state.
func checkPlayer(s *State, player int) error {
	if player < 0 || player >= s.NumPlayers {
		return fmt.Errorf("%w: player %v is out of range for %v players", ErrPlayerOutOfRange, player, s.NumPlayers)
	}
	return nil
}
