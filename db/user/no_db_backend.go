package user

import (
	"context"
	"fmt"
)

// NoDatabaseBackend is a Backend for servers that run without a database.
// Users cannot be stored; logins succeed for anyone so casual games can still be played.
type NoDatabaseBackend struct{}

// Create returns an error.
func (NoDatabaseBackend) Create(ctx context.Context, u User) error {
	return fmt.Errorf("no database to create user")
}

// Read returns the user unchanged.
func (NoDatabaseBackend) Read(ctx context.Context, u User) (*User, error) {
	return &u, nil
}

// UpdatePassword returns an error.
func (NoDatabaseBackend) UpdatePassword(ctx context.Context, u User) error {
	return fmt.Errorf("no database to update user password")
}

// UpdatePointsIncrement does nothing.  Points are lost when no database is configured.
func (NoDatabaseBackend) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	return nil
}

// Delete returns an error.
func (NoDatabaseBackend) Delete(ctx context.Context, u User) error {
	return fmt.Errorf("no database to delete user")
}
