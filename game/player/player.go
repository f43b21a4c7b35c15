// Package player identifies each player in games and sockets.
package player

// Name is a player's unique, readable identifier.  Players keep their name across games.
type Name string

// String returns the name as a plain string.
func (n Name) String() string {
	return string(n)
}
