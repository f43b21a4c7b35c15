package server

import (
	"fmt"
	"net/http"

	"github.com/jacobpatterson1549/grab/db/user"
	"github.com/jacobpatterson1549/grab/server/log"
)

// userCreateHandler creates a user, adding it to the database.
func userCreateHandler(userDao UserDao, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		password := r.FormValue("password_confirm")
		u, err := user.New(username, password)
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		ctx := r.Context()
		if err := userDao.Create(ctx, *u); err != nil {
			writeInternalError(err, log, w)
			return
		}
	}
}

// userLoginHandler signs a user in, writing the session token to the response.
func userLoginHandler(userDao UserDao, tokenizer Tokenizer, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		password := r.FormValue("password")
		u, err := user.New(username, password)
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		ctx := r.Context()
		u2, err := userDao.Login(ctx, *u)
		if err != nil {
			log.Printf("login failure: %v", err)
			http.Error(w, "incorrect username/password", http.StatusUnauthorized)
			return
		}
		token, err := tokenizer.Create(u2.Username, u2.Points)
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		if _, err := w.Write([]byte(token)); err != nil {
			err = fmt.Errorf("writing authorization token: %w", err)
			writeInternalError(err, log, w)
			return
		}
	}
}

// userLobbyConnectHandler adds the user to the lobby, upgrading the request to a websocket.
// The session token is read from the access_token form value because websockets cannot set headers.
func userLobbyConnectHandler(lobby Lobby, tokenizer Tokenizer, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.FormValue("access_token")
		username, err := tokenizer.ReadUsername(tokenString)
		if err != nil {
			log.Printf("lobby connect failure: %v", err)
			httpError(w, http.StatusUnauthorized)
			return
		}
		if err := lobby.AddUser(username, w, r); err != nil {
			err = fmt.Errorf("websocket error: %w", err)
			writeInternalError(err, log, w)
			return
		}
	}
}

// userUpdatePasswordHandler updates the user's password, logging out the user.
func userUpdatePasswordHandler(userDao UserDao, lobby Lobby, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		username, ok := usernameFromContext(ctx)
		if !ok {
			httpError(w, http.StatusForbidden)
			return
		}
		password := r.FormValue("password")
		newPassword := r.FormValue("password_confirm")
		u, err := user.New(username, password)
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		if err := userDao.UpdatePassword(ctx, *u, newPassword); err != nil {
			writeInternalError(err, log, w)
			return
		}
		lobby.RemoveUser(username)
	}
}

// userDeleteHandler deletes the user from the database, removing it from the lobby.
func userDeleteHandler(userDao UserDao, lobby Lobby, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		username, ok := usernameFromContext(ctx)
		if !ok {
			httpError(w, http.StatusForbidden)
			return
		}
		password := r.FormValue("password")
		u, err := user.New(username, password)
		if err != nil {
			writeInternalError(err, log, w)
			return
		}
		if err := userDao.Delete(ctx, *u); err != nil {
			writeInternalError(err, log, w)
			return
		}
		lobby.RemoveUser(username)
	}
}
