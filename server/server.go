// Package server runs the http server that allows users to log in and open websockets to play the game.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jacobpatterson1549/grab/db/user"
	"github.com/jacobpatterson1549/grab/server/log"
)

type (
	// Server runs the site.
	Server struct {
		log        log.Logger
		lobby      Lobby
		HTTPServer *http.Server
		Config
	}

	// Config contains fields which describe the server.
	Config struct {
		// Port is the TCP port the server listens for requests on.
		Port int
		// StopDur is the length of time the server allows for gracefully finishing active requests when stopping.
		StopDur time.Duration
	}

	// Parameters contains the interfaces needed to create a new server.
	Parameters struct {
		log.Logger
		Tokenizer
		UserDao
		Lobby
	}

	// Tokenizer creates and reads session tokens from http traffic.
	Tokenizer interface {
		Create(username string, points int) (string, error)
		ReadUsername(tokenString string) (string, error)
	}

	// UserDao contains the operations the server needs to manage users.
	UserDao interface {
		Create(ctx context.Context, u user.User) error
		Login(ctx context.Context, u user.User) (*user.User, error)
		UpdatePassword(ctx context.Context, u user.User, newP string) error
		Delete(ctx context.Context, u user.User) error
	}

	// Lobby is the place users play games.
	Lobby interface {
		Run(ctx context.Context)
		AddUser(username string, w http.ResponseWriter, r *http.Request) error
		RemoveUser(username string)
	}
)

// NewServer creates a Server from the Config and Parameters.
func (cfg Config) NewServer(p Parameters) (*Server, error) {
	if err := cfg.validate(p); err != nil {
		return nil, fmt.Errorf("creating server: validation: %w", err)
	}
	addr := fmt.Sprintf(":%d", cfg.Port)
	s := Server{
		log:   p.Logger,
		lobby: p.Lobby,
		HTTPServer: &http.Server{
			Addr:         addr,
			Handler:      p.handler(),
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Config: cfg,
	}
	return &s, nil
}

// validate ensures the configuration and parameters have no errors.
func (cfg Config) validate(p Parameters) error {
	if err := p.validate(); err != nil {
		return err
	}
	switch {
	case cfg.Port <= 0:
		return fmt.Errorf("positive port required")
	case cfg.StopDur <= 0:
		return fmt.Errorf("stop timeout duration required")
	}
	return nil
}

// validate ensures that all of the parameters are present.
func (p Parameters) validate() error {
	switch {
	case p.Logger == nil:
		return fmt.Errorf("log required")
	case p.Tokenizer == nil:
		return fmt.Errorf("tokenizer required")
	case p.UserDao == nil:
		return fmt.Errorf("user dao required")
	case p.Lobby == nil:
		return fmt.Errorf("lobby required")
	}
	return nil
}

// Run starts the lobby and the http server.
// When the http server stops, its error is sent on the returned channel.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 1)
	ctx, cancelFunc := context.WithCancel(ctx)
	s.lobby.Run(ctx)
	s.HTTPServer.RegisterOnShutdown(cancelFunc)
	s.log.Printf("starting server at http://127.0.0.1%v", s.HTTPServer.Addr)
	go func() {
		errC <- s.HTTPServer.ListenAndServe()
	}()
	return errC
}

// Stop asks the server to shut down and waits for the shutdown to complete.
// An error is returned if the shutdown does not finish before the stop duration elapses.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancelFunc := context.WithTimeout(ctx, s.StopDur)
	defer cancelFunc()
	if err := s.HTTPServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}
