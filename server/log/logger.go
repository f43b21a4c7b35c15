// Package log declares the logging interface the server components share.
package log

// Logger is the part of log.Logger the server uses.
// Components take it as a dependency so they all write to the same log rather than the package default logger.
type Logger interface {
	// Printf writes the formatted string with values to the logger.
	// Arguments are handled in the manner of fmt.Printf.
	Printf(format string, v ...interface{})
}
