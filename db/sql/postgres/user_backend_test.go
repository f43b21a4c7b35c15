package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jacobpatterson1549/grab/db/sql"
	"github.com/jacobpatterson1549/grab/db/user"
)

func TestUserBackendRead(t *testing.T) {
	readTests := []struct {
		queryErr error
		wantErr  error
		wantOk   bool
	}{
		{
			wantOk: true,
		},
		{
			queryErr: fmt.Errorf("could not read user from mock"),
		},
		{
			queryErr: sql.ErrNoRows,
			wantErr:  user.ErrIncorrectLogin,
		},
	}
	for i, test := range readTests {
		u := user.User{
			Username: "billy",
			Password: "B0b_pa55word",
		}
		want := &user.User{
			Username: "billy",
			Password: "hashed_password",
			Points:   1955,
		}
		d := mockDatabase{
			QueryFunc: func(ctx context.Context, q sql.Query, dest ...interface{}) error {
				wantCmd := "SELECT username, password, points FROM user_read($1)"
				wantArgs := []interface{}{u.Username}
				switch {
				case wantCmd != q.Cmd():
					t.Errorf("Test %v: query commands not equal: \n wanted: %q \n got:    %q", i, wantCmd, q.Cmd())
				case !reflect.DeepEqual(wantArgs, q.Args()):
					t.Errorf("Test %v: query arguments not equal: \n wanted: %q \n got:    %q", i, wantArgs, q.Args())
				}
				if test.queryErr != nil {
					return test.queryErr
				}
				*dest[0].(*string) = want.Username
				*dest[1].(*string) = want.Password
				*dest[2].(*int) = want.Points
				return nil
			},
		}
		ub := UserBackend{
			Database: d,
		}
		ctx := context.Background()
		got, err := ub.Read(ctx, u)
		switch {
		case !test.wantOk:
			switch {
			case err == nil:
				t.Errorf("Test %v: wanted error", i)
			case test.wantErr != nil && !errors.Is(err, test.wantErr):
				t.Errorf("Test %v: wanted error %v, got %v", i, test.wantErr, err)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case !reflect.DeepEqual(want, got):
			t.Errorf("Test %v: users not equal: \n wanted: %v \n got:    %v", i, want, got)
		}
	}
}

func TestUserBackendExecUser(t *testing.T) {
	u := user.User{
		Username: "billy",
		Password: "hashed_password",
	}
	execUserTests := []struct {
		exec     func(ub *UserBackend, ctx context.Context) error
		wantCmd  string
		wantArgs []interface{}
	}{
		{
			exec: func(ub *UserBackend, ctx context.Context) error {
				return ub.Create(ctx, u)
			},
			wantCmd:  "SELECT user_create($1, $2)",
			wantArgs: []interface{}{u.Username, u.Password},
		},
		{
			exec: func(ub *UserBackend, ctx context.Context) error {
				return ub.UpdatePassword(ctx, u)
			},
			wantCmd:  "SELECT user_update_password($1, $2)",
			wantArgs: []interface{}{u.Username, u.Password},
		},
		{
			exec: func(ub *UserBackend, ctx context.Context) error {
				return ub.Delete(ctx, u)
			},
			wantCmd:  "SELECT user_delete($1)",
			wantArgs: []interface{}{u.Username},
		},
	}
	for i, test := range execUserTests {
		for _, execErr := range []error{nil, fmt.Errorf("could not update user in mock")} {
			d := mockDatabase{
				ExecFunc: func(ctx context.Context, queries ...sql.Query) error {
					switch {
					case len(queries) != 1:
						t.Errorf("Test %v: wanted 1 query, got %v", i, len(queries))
					case test.wantCmd != queries[0].Cmd():
						t.Errorf("Test %v: query commands not equal: \n wanted: %q \n got:    %q", i, test.wantCmd, queries[0].Cmd())
					case !reflect.DeepEqual(test.wantArgs, queries[0].Args()):
						t.Errorf("Test %v: query arguments not equal: \n wanted: %q \n got:    %q", i, test.wantArgs, queries[0].Args())
					}
					return execErr
				},
			}
			ub := UserBackend{
				Database: d,
			}
			err := test.exec(&ub, context.Background())
			if gotErr := err != nil; gotErr != (execErr != nil) {
				t.Errorf("Test %v: wanted error: %v, got: %v", i, execErr, err)
			}
		}
	}
}

func TestUserBackendUpdatePointsIncrement(t *testing.T) {
	usernamePoints := map[string]int{
		"fred":   12,
		"barney": 0,
		"wilma": 44,
	}
	d := mockDatabase{
		ExecFunc: func(ctx context.Context, queries ...sql.Query) error {
			wantUsernames := []string{"barney", "fred", "wilma"} // sorted for deterministic transactions
			if len(queries) != len(wantUsernames) {
				t.Fatalf("wanted %v queries, got %v", len(wantUsernames), len(queries))
			}
			for i, q := range queries {
				wantCmd := "SELECT user_update_points_increment($1, $2)"
				wantArgs := []interface{}{wantUsernames[i], usernamePoints[wantUsernames[i]]}
				switch {
				case wantCmd != q.Cmd():
					t.Errorf("query %v: commands not equal: \n wanted: %q \n got:    %q", i, wantCmd, q.Cmd())
				case !reflect.DeepEqual(wantArgs, q.Args()):
					t.Errorf("query %v: arguments not equal: \n wanted: %v \n got:    %v", i, wantArgs, q.Args())
				}
			}
			return nil
		},
	}
	ub := UserBackend{
		Database: d,
	}
	if err := ub.UpdatePointsIncrement(context.Background(), usernamePoints); err != nil {
		t.Errorf("unwanted error: %v", err)
	}
}
