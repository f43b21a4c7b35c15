package grab

import "errors"

// Failed actions wrap one of these errors so callers can check the failure kind with errors.Is.
// Every failure leaves the input state untouched; none of these are exceptional program states.
var (
	// ErrInvalidCharacter is wrapped when a word contains a character outside a-z.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrDisallowedWord is wrapped when a word is not in the dictionary or is rejected by the suffix policy.
	ErrDisallowedWord = errors.New("word not allowed")
	// ErrNoWordFound is wrapped when no combination of at most one existing word plus pool letters covers a word.
	ErrNoWordFound = errors.New("no word found")
	// ErrPlayerOutOfRange is wrapped when a player index is invalid for the state.
	ErrPlayerOutOfRange = errors.New("player out of range")
	// ErrInvalidArgument is wrapped when a draw request is malformed or a predetermined draw letter is not in the bag.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInsufficientLetters is wrapped when the bag has fewer letters than a draw requests.
	ErrInsufficientLetters = errors.New("not enough letters in bag")
	// ErrInvalidAction is wrapped when an action is neither a word nor a pass.
	ErrInvalidAction = errors.New("invalid action")
	// ErrGameFinished is wrapped when an action is requested on a finished game.
	ErrGameFinished = errors.New("game is finished")
)
