package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jacobpatterson1549/grab/server/log"
)

type contextKey int

const usernameContextKey contextKey = iota + 1

// handler creates the root handler for the server, routing requests by method and path.
func (p Parameters) handler() http.Handler {
	getHandler := p.getHandler()
	postHandler := p.postHandler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			getHandler.ServeHTTP(w, r)
		case "POST":
			postHandler.ServeHTTP(w, r)
		default:
			httpError(w, http.StatusMethodNotAllowed)
		}
	})
}

// getHandler forwards calls to GET endpoints.
func (p Parameters) getHandler() http.Handler {
	getMux := http.NewServeMux()
	getMux.Handle("/lobby", http.HandlerFunc(userLobbyConnectHandler(p.Lobby, p.Tokenizer, p.Logger)))
	return getMux
}

// postHandler checks authentication and forwards calls to POST endpoints.
func (p Parameters) postHandler() http.Handler {
	postMux := http.NewServeMux()
	postMux.Handle("/user_create", http.HandlerFunc(userCreateHandler(p.UserDao, p.Logger)))
	postMux.Handle("/user_login", http.HandlerFunc(userLoginHandler(p.UserDao, p.Tokenizer, p.Logger)))
	postMux.Handle("/user_update_password", http.HandlerFunc(userUpdatePasswordHandler(p.UserDao, p.Lobby, p.Logger)))
	postMux.Handle("/user_delete", http.HandlerFunc(userDeleteHandler(p.UserDao, p.Lobby, p.Logger)))
	postMux.Handle("/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// NOOP, refreshes the request deadline
	}))
	return authHandler(postMux, p.Tokenizer, p.Logger)
}

// authHandler checks the token username of the request before running the child handler.
func authHandler(h http.Handler, tokenizer Tokenizer, log log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user_create", "/user_login":
			// [unauthenticated]
		default:
			username, err := getBearerUsername(r.Header.Get("Authorization"), tokenizer)
			if err != nil {
				log.Printf("authorization failure: %v", err)
				httpError(w, http.StatusForbidden)
				return
			}
			if formUsername := r.FormValue("username"); username != formUsername {
				log.Printf("requested username different from token username")
				httpError(w, http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			r = r.WithContext(ctx)
		}
		h.ServeHTTP(w, r)
	}
}

// getBearerUsername retrieves the username from the bearer token in the authorization header value.
func getBearerUsername(authorization string, tokenizer Tokenizer) (string, error) {
	if len(authorization) < 7 || authorization[:7] != "Bearer " {
		return "", fmt.Errorf("invalid authorization header: %v", authorization)
	}
	tokenString := authorization[7:]
	username, err := tokenizer.ReadUsername(tokenString)
	if err != nil {
		return "", fmt.Errorf("reading username from token: %w", err)
	}
	return username, nil
}

// usernameFromContext retrieves the authenticated username stored on the request context.
func usernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameContextKey).(string)
	return username, ok
}

// writeInternalError logs and writes the error as an internal server error (500).
func writeInternalError(err error, log log.Logger, w http.ResponseWriter) {
	log.Printf("server error: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// httpError writes the error status code.
func httpError(w http.ResponseWriter, statusCode int) {
	http.Error(w, http.StatusText(statusCode), statusCode)
}
