package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// User Activity Metrics
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_new_users_total",
		Help: "Total number of new user registrations.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of login attempts (successful and failed).",
	}, []string{"status"}) // status: "success" or "failed"
	PasswordResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_password_resets_total",
		Help: "Total number of completed password resets.",
	})

	// Catalog Metrics
	MovieCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_movie_created_total",
		Help: "Total number of movies created.",
	})
	DirectorCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_director_created_total",
		Help: "Total number of directors created.",
	})
	GenreCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_genre_created_total",
		Help: "Total number of genres created.",
	})
	FavouriteUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_favourite_updates_total",
		Help: "Total number of favourites list changes.",
	}, []string{"action"}) // action: "add" or "remove"
	RecommendationsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_recommendations_generated_total",
		Help: "Total number of AI movie recommendations generated.",
	})
)
