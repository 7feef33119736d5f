package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"picfolio/middleware"
)

func (h *WebHandler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware, middleware.Recover, middleware.SecureHeaders)

	// Albums
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/album/{category}", h.AlbumView).Methods("GET")
	r.HandleFunc("/upload", h.middleware.RequireLogin(h.Upload)).Methods("GET", "POST")
	r.HandleFunc("/delete_album/{category}", h.middleware.RequireLogin(h.DeleteAlbum)).Methods("POST")
	r.HandleFunc("/delete_image/{category}/{image}", h.middleware.RequireLogin(h.DeleteImage)).Methods("POST")
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(uploadFS{root: http.Dir(h.config.UploadDir)}))).Methods("GET")

	// Accounts
	r.HandleFunc("/register", h.Register).Methods("GET", "POST")
	r.HandleFunc("/login", h.Login).Methods("GET", "POST")
	r.HandleFunc("/logout", h.Logout).Methods("GET")

	// Pages and games
	r.HandleFunc("/about", h.About).Methods("GET")
	r.HandleFunc("/games", h.Games).Methods("GET")
	r.HandleFunc("/rps_game", h.RPSGame).Methods("GET", "POST")
	r.HandleFunc("/wordle", h.Wordle).Methods("GET", "POST")
	r.HandleFunc("/wordle_end", h.WordleEnd).Methods("GET")
	r.HandleFunc("/reset", h.Reset).Methods("GET")

	r.Handle("/metrics", h.metrics.Handler()).Methods("GET")

	r.NotFoundHandler = middleware.LoggingMiddleware(middleware.SecureHeaders(http.HandlerFunc(h.NotFound)))

	return r
}
