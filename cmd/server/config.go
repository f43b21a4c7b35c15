package main

import (
	"context"
	crypto_rand "crypto/rand"
	gosql "database/sql"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"time"

	"github.com/jacobpatterson1549/grab/db"
	"github.com/jacobpatterson1549/grab/db/bcrypt"
	"github.com/jacobpatterson1549/grab/db/firestore"
	"github.com/jacobpatterson1549/grab/db/mongo"
	"github.com/jacobpatterson1549/grab/db/sql"
	"github.com/jacobpatterson1549/grab/db/sql/postgres"
	"github.com/jacobpatterson1549/grab/db/user"
	"github.com/jacobpatterson1549/grab/game/word"
	"github.com/jacobpatterson1549/grab/server"
	"github.com/jacobpatterson1549/grab/server/auth"
	gameController "github.com/jacobpatterson1549/grab/server/game"
	"github.com/jacobpatterson1549/grab/server/game/lobby"
	"github.com/jacobpatterson1549/grab/server/game/socket"
)

// createServer creates the server from the main flags.
func createServer(ctx context.Context, m mainFlags, log *log.Logger) (*server.Server, error) {
	timeFunc := func() int64 {
		return time.Now().UTC().Unix()
	}
	tokenizer, err := tokenizer(timeFunc)
	if err != nil {
		return nil, fmt.Errorf("creating authentication tokenizer: %w", err)
	}
	ud, err := userDao(ctx, m, log)
	if err != nil {
		return nil, fmt.Errorf("creating user dao: %w", err)
	}
	socketRunnerCfg := socketRunnerConfig(m, log, timeFunc)
	socketRunner, err := socketRunnerCfg.NewRunner()
	if err != nil {
		return nil, fmt.Errorf("creating socket runner: %w", err)
	}
	gameRunnerCfg, err := gameRunnerConfig(m, log, timeFunc)
	if err != nil {
		return nil, fmt.Errorf("creating game runner config: %w", err)
	}
	gameRunner, err := gameRunnerCfg.NewRunner(ud)
	if err != nil {
		return nil, fmt.Errorf("creating game runner: %w", err)
	}
	lobbyCfg := lobby.Config{
		Debug: m.debugMessages,
		Log:   log,
	}
	l, err := lobbyCfg.NewLobby(socketRunner, gameRunner)
	if err != nil {
		return nil, fmt.Errorf("creating lobby: %w", err)
	}
	cfg := server.Config{
		Port:    m.port,
		StopDur: 5 * time.Second,
	}
	p := server.Parameters{
		Logger:    log,
		Tokenizer: tokenizer,
		UserDao:   ud,
		Lobby:     l,
	}
	return cfg.NewServer(p)
}

// tokenizer creates the authentication tokenizer with a random signing key.
// Sessions do not survive a server restart because the key is not persisted.
func tokenizer(timeFunc func() int64) (*auth.JwtTokenizer, error) {
	key := make([]byte, 64)
	if _, err := crypto_rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating signing key: %w", err)
	}
	cfg := auth.TokenizerConfig{
		TimeFunc: timeFunc,
		ValidSec: int64((24 * time.Hour).Seconds()), // 1 day
	}
	return cfg.NewTokenizer(key)
}

// userDao creates the user dao on the backend selected by the data source url.
func userDao(ctx context.Context, m mainFlags, log *log.Logger) (*user.Dao, error) {
	b, err := userBackend(ctx, m, log)
	if err != nil {
		return nil, fmt.Errorf("creating user backend: %w", err)
	}
	cfg := user.DaoConfig{
		Backend:         b,
		PasswordHandler: bcrypt.NewPasswordHandler(),
	}
	return cfg.NewDao()
}

// userBackend selects and sets up the user backend from the data source url scheme.
func userBackend(ctx context.Context, m mainFlags, log *log.Logger) (user.Backend, error) {
	if len(m.databaseURL) == 0 {
		log.Printf("no data source provided, users will not be persisted")
		return user.NoDatabaseBackend{}, nil
	}
	u, err := url.Parse(m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing data source url: %w", err)
	}
	dbCfg := db.Config{
		QueryPeriod: 5 * time.Second,
	}
	switch u.Scheme {
	case "postgres":
		return postgresUserBackend(ctx, dbCfg, m.databaseURL)
	case "mongodb", "mongodb+srv":
		b, err := mongo.NewUserBackend(ctx, dbCfg, m.databaseURL)
		if err != nil {
			return nil, err
		}
		if err := b.Setup(ctx); err != nil {
			return nil, fmt.Errorf("setting up mongo user backend: %w", err)
		}
		return b, nil
	case "firestore":
		return firestore.NewUserBackend(ctx, dbCfg, u.Host)
	}
	return nil, fmt.Errorf("unsupported data source scheme: %v", u.Scheme)
}

// postgresUserBackend opens the postgres database and installs the user table and functions.
func postgresUserBackend(ctx context.Context, cfg db.Config, databaseURL string) (*postgres.UserBackend, error) {
	sqlDB, err := gosql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	d, err := sql.NewDatabase(cfg, sqlDB)
	if err != nil {
		return nil, err
	}
	files, err := sqlSetupFiles(embeddedSQLFS)
	if err != nil {
		return nil, err
	}
	b := postgres.UserBackend{
		Database: d,
	}
	if err := b.Setup(ctx, files); err != nil {
		return nil, fmt.Errorf("setting up postgres user backend: %w", err)
	}
	return &b, nil
}

// gameRunnerConfig creates the configuration for running and managing games.
func gameRunnerConfig(m mainFlags, log *log.Logger, timeFunc func() int64) (*gameController.RunnerConfig, error) {
	gameCfg, err := gameConfig(m, log, timeFunc)
	if err != nil {
		return nil, fmt.Errorf("creating game config: %w", err)
	}
	cfg := gameController.RunnerConfig{
		Log:        log,
		MaxGames:   4,
		GameConfig: *gameCfg,
	}
	return &cfg, nil
}

// gameConfig creates the template configuration for all games.
func gameConfig(m mainFlags, log *log.Logger, timeFunc func() int64) (*gameController.Config, error) {
	wordsFile, err := os.Open(m.wordsFile)
	if err != nil {
		return nil, fmt.Errorf("trying to open words file: %w", err)
	}
	wordChecker := word.NewChecker(wordsFile)
	cfg := gameController.Config{
		Debug:       m.debugMessages,
		Log:         log,
		TimeFunc:    timeFunc,
		WordChecker: wordChecker,
		IdlePeriod:  60 * time.Minute,
		RandIndex:   rand.Intn,
	}
	cfg.MaxPlayers = 8
	cfg.CheckSuffixes = true
	return &cfg, nil
}

// socketRunnerConfig creates the configuration for creating new sockets (each tab that is connected to the lobby).
func socketRunnerConfig(m mainFlags, log *log.Logger, timeFunc func() int64) socket.RunnerConfig {
	socketCfg := socket.Config{
		Debug:          m.debugMessages,
		TimeFunc:       timeFunc,
		ReadWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		PingPeriod:     54 * time.Second, // readWait * 0.9
		HTTPPingPeriod: 10 * time.Minute,
	}
	cfg := socket.RunnerConfig{
		Log:              log,
		MaxSockets:       32,
		MaxPlayerSockets: 5,
		SocketConfig:     socketCfg,
	}
	return cfg
}
