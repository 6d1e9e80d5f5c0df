package server

import (
	"fmt"
	"net/http"

	"pairchat/auth"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter assembles the REST surface. Signup, login and status checks
// are public; everything else under /api requires a valid bearer token.
func NewRouter(issuer auth.TokenIssuer, authServer *AuthServer,
	chatServer *ChatServer, statusServer *StatusServer, allowedOrigin string) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok")
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/signup", authServer.Signup).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", authServer.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/status", statusServer.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/status", statusServer.List).Methods(http.MethodGet)

	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(auth.Middleware(issuer))
	protected.HandleFunc("/chats/create", chatServer.CreateChat).Methods(http.MethodPost)
	protected.HandleFunc("/chats/join/{inviteToken}", chatServer.JoinChat).Methods(http.MethodPost)
	protected.HandleFunc("/chats/my-chats", chatServer.MyChats).Methods(http.MethodGet)
	protected.HandleFunc("/messages/{chatID}", chatServer.SendMessage).Methods(http.MethodPost)
	protected.HandleFunc("/messages/{chatID}", chatServer.FetchMessages).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}
