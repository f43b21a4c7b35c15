// Package socket handles communication with a player using a websocket connection
package socket

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/jacobpatterson1549/grab/game/message"
	"github.com/jacobpatterson1549/grab/game/player"
)

type (
	// Socket reads and writes messages to the browsers
	Socket struct {
		log        *log.Logger
		PlayerName player.Name
		Addr       message.Addr
		Conn
		Config
	}

	// Config contains commonly shared Socket properties
	Config struct {
		// Debug is a flag that causes the socket to log the types non-ping/pong messages that are read/written
		Debug bool
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used to set read and write deadlines.
		TimeFunc func() int64
		// ReadWait is the amout of time that can pass between receiving client messages before timing out.
		ReadWait time.Duration
		// WriteWait is the amout of time that the socket can take to write a message.
		WriteWait time.Duration
		// PingPeriod is how often ping messages should be sent.  Should be less than ReadWait.
		PingPeriod time.Duration
		// HTTPPingPeriod is the amount of time between sending requests for the connection to send a http ping on a different socket
		// Heroku servers shut down if 30 minutes passess between HTTP requests
		HTTPPingPeriod time.Duration
	}

	// Conn is the connection than backs the socket
	Conn interface {
		// ReadMessage reads the next message from the connection.
		ReadMessage(m *message.Message) error
		// WriteMessage writes the message to the connection.
		WriteMessage(m message.Message) error
		// SetReadDeadline sets how long a read can take before it returns an error.
		SetReadDeadline(t time.Time) error
		// SetWriteDeadline sets how long a write can take before it returns an error.
		SetWriteDeadline(t time.Time) error
		// SetPongHandler is triggered when the server receives a pong response from a previous ping
		SetPongHandler(h func(appData string) error)
		// Close closes the connection.
		Close() error
		// WritePing writes a ping message on the connection.
		WritePing() error
		// WriteClose writes a close message on the connection.  The connection is NOT closed.
		WriteClose(reason string) error
		// IsNormalClose determines if the error message is an error that implies a normal close or is unexpected.
		IsNormalClose(err error) bool
		// RemoteAddr gets the remote network address of the connection.
		RemoteAddr() net.Addr
	}
)

// NewSocket creates a socket for the player using the connection.
func (cfg Config) NewSocket(log *log.Logger, pn player.Name, conn Conn) (*Socket, error) {
	a, err := cfg.validate(log, pn, conn)
	if err != nil {
		return nil, fmt.Errorf("creating socket: validation: %w", err)
	}
	s := Socket{
		log:        log,
		PlayerName: pn,
		Addr:       message.Addr(a.String()),
		Conn:       conn,
		Config:     cfg,
	}
	return &s, nil
}

// validate ensures the configuration has no errors, returning the remote address of the connection.
func (cfg Config) validate(log *log.Logger, pn player.Name, conn Conn) (net.Addr, error) {
	switch {
	case len(pn) == 0:
		return nil, fmt.Errorf("player name required")
	case conn == nil:
		return nil, fmt.Errorf("websocket connection required")
	}
	a := conn.RemoteAddr()
	switch {
	case a == nil:
		return nil, fmt.Errorf("remote address of connection required")
	case log == nil:
		return nil, fmt.Errorf("log required")
	case cfg.TimeFunc == nil:
		return nil, fmt.Errorf("time func required")
	case cfg.ReadWait <= 0:
		return nil, fmt.Errorf("positive read wait period required")
	case cfg.WriteWait <= 0:
		return nil, fmt.Errorf("positive write wait period required")
	case cfg.PingPeriod <= 0:
		return nil, fmt.Errorf("positive ping period required")
	case cfg.HTTPPingPeriod <= 0:
		return nil, fmt.Errorf("positive http ping period required")
	case cfg.PingPeriod >= cfg.ReadWait:
		return nil, fmt.Errorf("ping period should be less than read wait")
	}
	return a, nil
}

// Run reads and writes messages on the connection until the context is closed or the connection fails.
// Messages from the connection are written the "out" channel.  Messages from the "in" channel are written to the connection.
func (s *Socket) Run(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message, out chan<- message.Message) {
	wg.Add(2)
	go s.readMessagesSync(ctx, wg, out)
	go s.writeMessagesSync(ctx, wg, in)
}

// readMessagesSync receives messages from the connection and writes them to the out channel.
// A socket close message is sent on the out channel when reading stops, unless the context has been cancelled.
func (s *Socket) readMessagesSync(ctx context.Context, wg *sync.WaitGroup, out chan<- message.Message) {
	defer wg.Done()
	defer s.Conn.Close()
	closeMessage := func() {
		select {
		case <-ctx.Done():
		default:
			out <- message.Message{
				Type:       message.SocketClose,
				PlayerName: s.PlayerName,
				Addr:       s.Addr,
			}
		}
	}
	if err := s.refreshReadDeadline(); err != nil {
		s.log.Printf("setting read deadline for %v: %v", s.PlayerName, err)
		closeMessage()
		return
	}
	s.Conn.SetPongHandler(func(appData string) error {
		return s.refreshReadDeadline()
	})
	for { // BLOCKING
		var m message.Message
		err := s.Conn.ReadMessage(&m) // BLOCKING
		select {
		case <-ctx.Done():
			return
		default:
		}
		switch {
		case err != nil:
			if !s.Conn.IsNormalClose(err) {
				reason := fmt.Sprintf("reading socket messages stopped for %v: %v", s.PlayerName, err)
				s.log.Print(reason)
				s.Conn.WriteClose(reason)
			}
			closeMessage()
			return
		case m.Game == nil:
			reason := fmt.Sprintf("received message from %v not relating to a game", s.PlayerName)
			s.log.Print(reason)
			s.Conn.WriteClose(reason)
			closeMessage()
			return
		}
		if s.Debug {
			s.log.Printf("socket reading message with type %v", m.Type)
		}
		m.PlayerName = s.PlayerName
		m.Addr = s.Addr
		out <- m
	}
}

// writeMessagesSync writes messages from the in channel to the connection.
// Ping messages are sent periodically to keep the connection alive.
func (s *Socket) writeMessagesSync(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message) {
	pingTicker := time.NewTicker(s.PingPeriod)
	httpPingTicker := time.NewTicker(s.HTTPPingPeriod)
	var closeReason string
	defer func() {
		pingTicker.Stop()
		httpPingTicker.Stop()
		s.Conn.WriteClose(closeReason)
		s.Conn.Close()
		wg.Done()
	}()
	var err error
	for { // BLOCKING
		select {
		case <-ctx.Done():
			closeReason = "server shutting down"
			return
		case m, ok := <-in:
			if !ok {
				closeReason = "server closed the connection"
				return
			}
			err = s.writeMessage(m)
		case <-pingTicker.C:
			err = s.writePing()
		case <-httpPingTicker.C:
			err = s.writeMessage(message.Message{
				Type: message.SocketHTTPPing,
			})
		}
		if err != nil {
			closeReason = fmt.Sprintf("writing socket messages stopped for %v: %v", s.PlayerName, err)
			s.log.Print(closeReason)
			return
		}
	}
}

// writeMessage writes a message to the connection.
func (s *Socket) writeMessage(m message.Message) error {
	if s.Debug {
		s.log.Printf("socket writing message with type %v", m.Type)
	}
	if err := s.refreshWriteDeadline(); err != nil {
		return err
	}
	if err := s.Conn.WriteMessage(m); err != nil {
		return fmt.Errorf("writing socket message: %v", err)
	}
	if m.Type == message.PlayerRemove {
		return fmt.Errorf("player deleted")
	}
	return nil
}

// writePing writes a ping message on the connection.
func (s *Socket) writePing() error {
	if err := s.refreshWriteDeadline(); err != nil {
		return err
	}
	return s.Conn.WritePing()
}

func (s *Socket) refreshReadDeadline() error {
	return s.refreshDeadline(s.Conn.SetReadDeadline, s.ReadWait)
}

func (s *Socket) refreshWriteDeadline() error {
	return s.refreshDeadline(s.Conn.SetWriteDeadline, s.WriteWait)
}

// refreshDeadline sets the deadline to the current time plus the period.
func (s *Socket) refreshDeadline(refreshDeadlineFunc func(t time.Time) error, period time.Duration) error {
	now := time.Unix(s.TimeFunc(), 0)
	deadline := now.Add(period)
	if err := refreshDeadlineFunc(deadline); err != nil {
		return fmt.Errorf("refreshing deadline: %w", err)
	}
	return nil
}
