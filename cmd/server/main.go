// Package main starts the server after configuring it from supplied or standard arguments.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacobpatterson1549/grab/server"
	_ "github.com/lib/pq" // register "postgres" database driver from package init() function
)

// main configures and runs the server.
func main() {
	ctx := context.Background()
	logFlags := log.Ldate | log.Ltime | log.LUTC | log.Lshortfile | log.Lmsgprefix
	log := log.New(os.Stdout, "", logFlags)
	m := newMainFlags(os.Args, os.LookupEnv)
	server, err := createServer(ctx, m, log)
	if err != nil {
		log.Fatalf("creating server: %v", err)
	}
	if err := runServer(ctx, server, log); err != nil {
		log.Fatalf("running server: %v", err)
	}
	log.Printf("server run stopped successfully")
}

// runServer runs the server until it is interrupted or terminated.
func runServer(ctx context.Context, server *server.Server, log *log.Logger) error {
	done := make(chan os.Signal, 2)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	errC := server.Run(ctx)
	select { // BLOCKING
	case err := <-errC:
		switch {
		case err == http.ErrServerClosed:
			log.Printf("server shutdown triggered")
		default:
			log.Printf("server stopped unexpectedly: %v", err)
		}
	case signal := <-done:
		log.Printf("handled signal: %v", signal)
	}
	if err := server.Stop(ctx); err != nil {
		return fmt.Errorf("stopping server: %v", err)
	}
	return nil
}
