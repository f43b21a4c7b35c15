// Package firestore uses a google cloud firestore database.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/jacobpatterson1549/grab/db"
	"github.com/jacobpatterson1549/grab/db/user"
)

const (
	servicesCollection = "services"
	serviceDocument    = "grab"
	usersCollection    = "users"
	passwordField      = "password"
	pointsField        = "points"
)

// UserBackend is a backend manager for a users collection.
// The username is the document id, so it is not stored as a field.
type UserBackend struct {
	client *firestore.Client
	db.Config
}

// NewUserBackend creates a backend manager for users in the project.
func NewUserBackend(ctx context.Context, cfg db.Config, projectID string) (*UserBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating firestore user backend: validation: %w", err)
	}
	client, err := firestore.NewClient(ctx, projectID) // do not timeout context, the client is used by the backend
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	ub := UserBackend{
		client: client,
		Config: cfg,
	}
	return &ub, nil
}

func (ub *UserBackend) users() *firestore.CollectionRef {
	return ub.client.Collection(servicesCollection).Doc(serviceDocument).Collection(usersCollection)
}

// withTimeoutContext configures the context to timeout when running the function.
func (ub *UserBackend) withTimeoutContext(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, ub.QueryPeriod)
	defer cancelFunc()
	return f(ctx)
}

// Create adds the username/password pair.
func (ub *UserBackend) Create(ctx context.Context, u user.User) error {
	if err := ub.withTimeoutContext(ctx, func(ctx context.Context) error {
		docRef := ub.users().Doc(u.Username)
		m := map[string]interface{}{
			passwordField: u.Password,
		}
		_, err := docRef.Create(ctx, m) // returns an error if the user already exists
		return err
	}); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Read gets the password and points for the user by username.
func (ub *UserBackend) Read(ctx context.Context, u user.User) (*user.User, error) {
	if err := ub.withTimeoutContext(ctx, func(ctx context.Context) error {
		docRef := ub.users().Doc(u.Username)
		snapshot, err := docRef.Get(ctx)
		if err != nil {
			if snapshot != nil && !snapshot.Exists() {
				return user.ErrIncorrectLogin
			}
			return err
		}
		return snapshot.DataTo(&u)
	}); err != nil {
		if err == user.ErrIncorrectLogin {
			return nil, err
		}
		return nil, fmt.Errorf("reading user: %w", err)
	}
	return &u, nil
}

// UpdatePassword updates the password for the user identified by the username.
func (ub *UserBackend) UpdatePassword(ctx context.Context, u user.User) error {
	if err := ub.withTimeoutContext(ctx, func(ctx context.Context) error {
		docRef := ub.users().Doc(u.Username)
		updates := []firestore.Update{
			{
				Path:  passwordField,
				Value: u.Password,
			},
		}
		_, err := docRef.Update(ctx, updates)
		return err
	}); err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// UpdatePointsIncrement increments the points for all of the usernames in one batch.
func (ub *UserBackend) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	if err := ub.withTimeoutContext(ctx, func(ctx context.Context) error {
		users := ub.users()
		b := ub.client.Batch()
		for username, points := range usernamePoints {
			docRef := users.Doc(username)
			updates := []firestore.Update{
				{
					Path:  pointsField,
					Value: firestore.FieldTransformIncrement(points),
				},
			}
			b.Update(docRef, updates)
		}
		_, err := b.Commit(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("incrementing user points: %w", err)
	}
	return nil
}

// Delete removes the user.
func (ub *UserBackend) Delete(ctx context.Context, u user.User) error {
	if err := ub.withTimeoutContext(ctx, func(ctx context.Context) error {
		docRef := ub.users().Doc(u.Username)
		_, err := docRef.Delete(ctx, firestore.Exists)
		return err
	}); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
