package server

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"myflix/internal/handlers"
	"myflix/internal/middlewares"
)

func staticDir() string {
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		return dir
	}
	return "./docs"
}

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	prom := middlewares.NewPrometheusMiddleware()
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.RateLimit)
	r.Use(prom.Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.WelcomeHandler).Methods("GET")
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.PathPrefix("/docs/").Handler(http.StripPrefix("/docs/", http.FileServer(http.Dir(staticDir()))))

	s.registerUserRoutes(r)
	s.registerAuthRoutes(r)
	s.registerMovieRoutes(r)
	s.registerDirectorRoutes(r)
	s.registerGenreRoutes(r)

	return r
}

func (s *Server) registerUserRoutes(r *mux.Router) {
	uh := handlers.NewUserHandler(s.userService)
	rh := handlers.NewRecommendationHandler(s.recommendationService)

	r.HandleFunc("/users", uh.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/login", uh.Login).Methods("POST", "OPTIONS")

	r.Handle("/users/{username}", middlewares.AuthMiddleware(http.HandlerFunc(uh.GetProfile))).Methods("GET", "OPTIONS")
	r.Handle("/users/{username}", middlewares.AuthMiddleware(http.HandlerFunc(uh.UpdateProfile))).Methods("PUT", "PATCH", "OPTIONS")
	r.Handle("/users/{username}", middlewares.AuthMiddleware(http.HandlerFunc(uh.DeleteAccount))).Methods("DELETE", "OPTIONS")

	r.Handle("/users/{username}/favourites/{movieID}", middlewares.AuthMiddleware(http.HandlerFunc(uh.AddFavourite))).Methods("POST", "OPTIONS")
	r.Handle("/users/{username}/favourites/{movieID}", middlewares.AuthMiddleware(http.HandlerFunc(uh.RemoveFavourite))).Methods("DELETE", "OPTIONS")

	r.Handle("/users/{username}/recommendations", middlewares.AuthMiddleware(http.HandlerFunc(rh.GetRecommendations))).Methods("GET", "OPTIONS")
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.authService, s.otpService)

	r.HandleFunc("/auth/forgot-password", ah.ForgotPassword).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/reset-password", ah.ResetPassword).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/success", ah.AuthSuccess).Methods("GET", "OPTIONS")
	r.HandleFunc("/auth/error", ah.AuthError).Methods("GET", "OPTIONS")
	r.HandleFunc("/auth/{provider}", ah.ProviderAuth).Methods("GET", "OPTIONS")
	r.HandleFunc("/auth/{provider}/callback", ah.ProviderCallback).Methods("GET", "OPTIONS")
}

func (s *Server) registerMovieRoutes(r *mux.Router) {
	mh := handlers.NewMovieHandler(s.movieService)

	r.HandleFunc("/movies", mh.GetMovies).Methods("GET", "OPTIONS")
	r.HandleFunc("/movies/{title}", mh.GetMovieByTitle).Methods("GET", "OPTIONS")
	r.Handle("/movies", middlewares.AuthMiddleware(http.HandlerFunc(mh.AddMovie))).Methods("POST", "OPTIONS")
}

func (s *Server) registerDirectorRoutes(r *mux.Router) {
	dh := handlers.NewDirectorHandler(s.directorService)

	r.HandleFunc("/directors", dh.GetDirectors).Methods("GET", "OPTIONS")
	r.HandleFunc("/directors/{name}", dh.GetDirectorByName).Methods("GET", "OPTIONS")
	r.Handle("/directors", middlewares.AuthMiddleware(http.HandlerFunc(dh.AddDirector))).Methods("POST", "OPTIONS")
}

func (s *Server) registerGenreRoutes(r *mux.Router) {
	gh := handlers.NewGenreHandler(s.genreService)

	r.HandleFunc("/genres", gh.GetGenres).Methods("GET", "OPTIONS")
	r.HandleFunc("/genres/{name}", gh.GetGenreByName).Methods("GET", "OPTIONS")
	r.Handle("/genres", middlewares.AuthMiddleware(http.HandlerFunc(gh.AddGenre))).Methods("POST", "OPTIONS")
}
