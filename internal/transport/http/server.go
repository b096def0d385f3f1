package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"community-hub/internal/app"
	"community-hub/internal/realtime"
)

// UploadConfig bounds image uploads.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
	MaxFiles int
}

// Server wires the application services into HTTP routes.
type Server struct {
	auth      *app.AuthService
	posts     *app.PostService
	game      *app.GameService
	questions *app.QuestionService
	hub       *realtime.Hub
	uploads   UploadConfig
	upgrader  websocket.Upgrader
}

func NewServer(auth *app.AuthService, posts *app.PostService, game *app.GameService, questions *app.QuestionService, hub *realtime.Hub, uploads UploadConfig) *Server {
	if uploads.MaxBytes <= 0 {
		uploads.MaxBytes = 5 * 1024 * 1024
	}
	if uploads.MaxFiles <= 0 {
		uploads.MaxFiles = 3
	}
	return &Server{
		auth:      auth,
		posts:     posts,
		game:      game,
		questions: questions,
		hub:       hub,
		uploads:   uploads,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes builds the router. The rate limiter guards the API subtree; the
// websocket endpoint and uploaded files sit outside it.
func (s *Server) Routes(limiter RateLimiter) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(Logging, RateLimit(limiter))

	api.HandleFunc("/auth/request-otp", s.handleRequestOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-otp", s.handleVerifyOTP).Methods(http.MethodPost)

	api.HandleFunc("/posts", s.requireAuth(s.handleCreatePost)).Methods(http.MethodPost)
	api.HandleFunc("/posts", s.handleListPosts).Methods(http.MethodGet)

	api.HandleFunc("/game/submit", s.handleSubmitScore).Methods(http.MethodPost)
	api.HandleFunc("/game/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)

	api.HandleFunc("/questions/today", s.handleTodayQuestion).Methods(http.MethodGet)
	api.HandleFunc("/questions/answer", s.handleSubmitAnswer).Methods(http.MethodPost)

	api.HandleFunc("/profile/avatar", s.requireAuth(s.handleAvatar)).Methods(http.MethodPost)
	api.HandleFunc("/me", s.requireAuth(s.handleMe)).Methods(http.MethodGet)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/ws", s.handleWS)
	if s.uploads.Dir != "" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploads.Dir))))
	}
	return r
}
