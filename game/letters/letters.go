// Package letters contains the letter-count accounting used for every pool, bag, and word quantity in the game.
package letters

import "fmt"

// NumLetters is the size of the alphabet the game is played with.
const NumLetters = 26

type (
	// Counts tallies letters, index i holding the count of letter 'a'+i.
	// Every entry is non-negative; operations that would produce a negative entry report failure instead.
	Counts [NumLetters]int

	// Word is an immutable lowercase word and its derived letter counts.
	Word struct {
		Text   string `json:"text"`
		Counts Counts `json:"-"`
	}
)

// NewCounts tallies the letters of the text, failing if any character is not a lowercase letter.
func NewCounts(text string) (Counts, error) {
	var c Counts
	for _, r := range text {
		if r < 'a' || 'z' < r {
			return Counts{}, fmt.Errorf("word contains invalid character: %q, only letters 'a' to 'z' are allowed", r)
		}
		c[r-'a']++
	}
	return c, nil
}

// NewWord creates a Word from the text, deriving its letter counts.
func NewWord(text string) (*Word, error) {
	c, err := NewCounts(text)
	if err != nil {
		return nil, err
	}
	w := Word{
		Text:   text,
		Counts: c,
	}
	return &w, nil
}

// Sum computes the total number of letters counted.
func (c Counts) Sum() int {
	sum := 0
	for _, n := range c {
		sum += n
	}
	return sum
}

// Add creates the elementwise sum of the counts.
func (c Counts) Add(other Counts) Counts {
	for i, n := range other {
		c[i] += n
	}
	return c
}

// Sub creates the elementwise difference of the counts.
// The second return value is false if any entry of other exceeds the corresponding entry of c; the difference is not usable in that case.
func (c Counts) Sub(other Counts) (Counts, bool) {
	ok := true
	for i, n := range other {
		c[i] -= n
		if c[i] < 0 {
			ok = false
		}
	}
	return c, ok
}

// Contains determines whether c has at least as many of every letter as other.
func (c Counts) Contains(other Counts) bool {
	for i, n := range other {
		if c[i] < n {
			return false
		}
	}
	return true
}

// Expand lists the counted letters in alphabetical order, each letter occurring as many times as it is counted.
func (c Counts) Expand() []rune {
	letters := make([]rune, 0, c.Sum())
	for i, n := range c {
		for j := 0; j < n; j++ {
			letters = append(letters, rune('a'+i))
		}
	}
	return letters
}

// Index computes the Counts slot for a letter, failing if the letter is not between 'a' and 'z'.
func Index(r rune) (int, error) {
	if r < 'a' || 'z' < r {
		return 0, fmt.Errorf("invalid letter: %q", r)
	}
	return int(r - 'a'), nil
}
