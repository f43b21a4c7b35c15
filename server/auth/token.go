// Package auth contains code to ensure users are authorized to use the server after they have logged in.
package auth

import (
	"fmt"

	jwt "github.com/golang-jwt/jwt/v4"
)

type (
	// Tokenizer creates and reads tokens from http traffic.
	Tokenizer interface {
		// Create makes a token for the username that expires after the valid period.
		Create(username string, points int) (string, error)
		// ReadUsername extracts the username from the token, failing if the token is expired or tampered with.
		ReadUsername(tokenString string) (string, error)
	}

	// TokenizerConfig contains fields which describe a Tokenizer.
	TokenizerConfig struct {
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used to set the length of time the token is valid.
		TimeFunc func() int64
		// ValidSec is the length of time the token is valid from the issuing time, in seconds.
		ValidSec int64
	}

	// JwtTokenizer implements the Tokenizer interface with signed JSON web tokens.
	JwtTokenizer struct {
		method jwt.SigningMethod
		key    interface{}
		TokenizerConfig
	}

	jwtUserClaims struct {
		Points             int `json:"points"`
		jwt.StandardClaims     // username stored in Subject ("sub") field
	}
)

// NewTokenizer creates a Tokenizer that signs tokens with the key.
func (cfg TokenizerConfig) NewTokenizer(key interface{}) (*JwtTokenizer, error) {
	if err := cfg.validate(key); err != nil {
		return nil, fmt.Errorf("creating tokenizer: validation: %w", err)
	}
	t := JwtTokenizer{
		method:          jwt.SigningMethodHS256,
		key:             key,
		TokenizerConfig: cfg,
	}
	return &t, nil
}

// validate ensures the configuration has no errors.
func (cfg TokenizerConfig) validate(key interface{}) error {
	switch {
	case key == nil:
		return fmt.Errorf("signing key required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.ValidSec <= 0:
		return fmt.Errorf("positive token valid period required")
	}
	return nil
}

// Create converts a user to a token string.
func (j JwtTokenizer) Create(username string, points int) (string, error) {
	now := j.TimeFunc()
	expiresAt := now + j.ValidSec
	stdClaims := jwt.StandardClaims{
		Subject:   username,
		NotBefore: now,
		ExpiresAt: expiresAt,
	}
	claims := jwtUserClaims{
		Points:         points,
		StandardClaims: stdClaims,
	}
	token := jwt.NewWithClaims(j.method, claims)
	return token.SignedString(j.key)
}

// ReadUsername extracts the username from the token string.
func (j JwtTokenizer) ReadUsername(tokenString string) (string, error) {
	var claims jwtUserClaims
	if _, err := jwt.ParseWithClaims(tokenString, &claims, j.keyFunc); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// keyFunc ensures the signing method of the token is correct before returning the key.
func (j JwtTokenizer) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method != j.method {
		return nil, fmt.Errorf("incorrect authorization signing method")
	}
	return j.key, nil
}
