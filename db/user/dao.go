package user

import (
	"context"
	"fmt"
)

type (
	// Dao contains CRUD operations for user-related information.
	// Passwords are hashed before they reach the backend and checked on reads.
	Dao struct {
		backend Backend
		ph      PasswordHandler
	}

	// Backend stores users.  Implementations exist for postgres, mongodb, and firestore databases.
	Backend interface {
		// Create adds the username/password pair.
		Create(ctx context.Context, u User) error
		// Read gets the user by username.  ErrIncorrectLogin is returned if no user has the username.
		Read(ctx context.Context, u User) (*User, error)
		// UpdatePassword sets the password of the user identified by the username.
		UpdatePassword(ctx context.Context, u User) error
		// UpdatePointsIncrement adds the points to each user in the map.
		UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error
		// Delete removes the user.
		Delete(ctx context.Context, u User) error
	}

	// PasswordHandler hashes passwords for storage and checks stored hashes.
	PasswordHandler interface {
		// Hash computes the hash to store for the password.
		Hash(password string) ([]byte, error)
		// IsCorrect determines if the hashed password matches the password.
		IsCorrect(hashedPassword []byte, password string) (bool, error)
	}

	// DaoConfig contains the properties to create a Dao.
	DaoConfig struct {
		Backend         Backend
		PasswordHandler PasswordHandler
	}
)

// NewDao creates a Dao on the backend.
func (cfg DaoConfig) NewDao() (*Dao, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating user dao: validation: %w", err)
	}
	d := Dao{
		backend: cfg.Backend,
		ph:      cfg.PasswordHandler,
	}
	return &d, nil
}

// validate checks fields to set up the dao.
func (cfg DaoConfig) validate() error {
	switch {
	case cfg.Backend == nil:
		return fmt.Errorf("backend required")
	case cfg.PasswordHandler == nil:
		return fmt.Errorf("password handler required")
	}
	return nil
}

// Create adds a user, storing the hash of the password.
func (d Dao) Create(ctx context.Context, u User) error {
	hashedPassword, err := d.ph.Hash(u.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.Password = string(hashedPassword)
	if err := d.backend.Create(ctx, u); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Login checks the password and gets stored information such as points.
func (d Dao) Login(ctx context.Context, u User) (*User, error) {
	u2, err := d.backend.Read(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("reading user: %w", err)
	}
	isCorrect, err := d.ph.IsCorrect([]byte(u2.Password), u.Password)
	switch {
	case err != nil:
		return nil, fmt.Errorf("checking password: %w", err)
	case !isCorrect:
		return nil, ErrIncorrectLogin
	}
	return u2, nil
}

// UpdatePassword sets the password of a user after checking the old one.
func (d Dao) UpdatePassword(ctx context.Context, u User, newP string) error {
	if _, err := d.Login(ctx, u); err != nil {
		return err
	}
	if err := validatePassword(newP); err != nil {
		return err
	}
	hashedPassword, err := d.ph.Hash(newP)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.Password = string(hashedPassword)
	if err := d.backend.UpdatePassword(ctx, u); err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// UpdatePointsIncrement increments the points for multiple users by the amounts defined in the map.
func (d Dao) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	if err := d.backend.UpdatePointsIncrement(ctx, usernamePoints); err != nil {
		return fmt.Errorf("incrementing user points: %w", err)
	}
	return nil
}

// Delete removes a user after checking the password.
func (d Dao) Delete(ctx context.Context, u User) error {
	if _, err := d.Login(ctx, u); err != nil {
		return err
	}
	if err := d.backend.Delete(ctx, u); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
