package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"myflix/internal/database"
	"myflix/internal/repositories"
	"myflix/internal/services"
	"myflix/internal/validation"
)

type Server struct {
	port                  int
	httpServer            *http.Server
	db                    database.Service
	userService           services.UserService
	movieService          services.MovieService
	directorService       services.DirectorService
	genreService          services.GenreService
	authService           services.AuthService
	otpService            services.OTPService
	recommendationService services.RecommendationService
}

func NewServer() *Server {
	portStr := os.Getenv("PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Warn().Str("port", portStr).Msg("Invalid PORT environment variable. Using default 8080.")
		port = 8080
	}

	db := database.New()
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatal().Err(err).Msg("Could not create unique indexes")
	}

	userRepo := repositories.NewUserRepository(db)
	movieRepo := repositories.NewMovieRepository(db)
	directorRepo := repositories.NewDirectorRepository(db)
	genreRepo := repositories.NewGenreRepository(db)
	otpRepo := repositories.NewOTPRepository(db)

	registry := validation.NewRegistry(userRepo, movieRepo, directorRepo, genreRepo)
	emailService := services.NewEmailService()

	s := &Server{
		port:                  port,
		db:                    db,
		userService:           services.NewUserService(userRepo, movieRepo, registry),
		movieService:          services.NewMovieService(movieRepo, genreRepo, directorRepo, registry),
		directorService:       services.NewDirectorService(directorRepo, registry),
		genreService:          services.NewGenreService(genreRepo, registry),
		authService:           services.NewAuthService(userRepo),
		otpService:            services.NewOTPService(userRepo, otpRepo, emailService, registry),
		recommendationService: services.NewRecommendationService(userRepo, movieRepo),
	}

	services.InitializeGoth()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
