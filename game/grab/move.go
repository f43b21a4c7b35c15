package grab

type (
	// Move records the result of an accepted action.  It is a closed sum type: MakeWord or DrawLetters.
	Move interface {
		isMove()
	}

	// MakeWord records a word construction: whose prior word and which pool letters were consumed to build Word.
	MakeWord struct {
		// Player is the index of the player that made the word.
		Player int `json:"player"`
		// Word is the word that was made.
		Word string `json:"word"`
		// UsedWords lists the previously-held words consumed to build Word, along with their former owners.
		UsedWords []UsedWord `json:"usedWords,omitempty"`
		// PoolLetters lists the letters taken from the pool.
		PoolLetters []rune `json:"poolLetters,omitempty"`
	}

	// UsedWord identifies a previously-held word and the player that held it.
	UsedWord struct {
		Player int    `json:"player"`
		Word   string `json:"word"`
	}

	// DrawLetters records which letters moved from the bag to the pool.
	DrawLetters struct {
		Letters []rune `json:"letters"`
	}

	// Action is a player's request: a closed sum type of Play and Pass.
	Action interface {
		isAction()
	}

	// Play requests construction of the word it holds.
	Play string

	// Pass signals that the player sees no further move this round.
	Pass struct{}
)

func (MakeWord) isMove()    {}
func (DrawLetters) isMove() {}

func (Play) isAction() {}
func (Pass) isAction() {}
