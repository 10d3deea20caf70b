package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myflix/internal/apperr"
	"myflix/internal/models"
)

func seedCatalog(movies *fakeMovieRepo, titles ...string) []models.Movie {
	out := make([]models.Movie, 0, len(titles))
	for _, title := range titles {
		out = append(out, seedMovie(movies, title))
	}
	return out
}

func recommendationJSON(t *testing.T, titles ...string) string {
	t.Helper()
	recs := make([]models.MovieRecommendation, 0, len(titles))
	for _, title := range titles {
		recs = append(recs, models.MovieRecommendation{Title: title, Reason: "because"})
	}
	raw, err := json.Marshal(recs)
	require.NoError(t, err)
	return string(raw)
}

func TestGetRecommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("prompts with favourites and catalog candidates", func(t *testing.T) {
		users := &fakeUserRepo{}
		movies := &fakeMovieRepo{}
		catalog := seedCatalog(movies, "Alien", "Heat", "Blade Runner", "The Thing", "Se7en", "Collateral")
		user := seedUser(t, users, "alice1", "secret", "alice@example.com")
		user.Favourites = append(user.Favourites, catalog[0].ID)

		var prompt string
		svc := &recommendationService{
			userRepo:  users,
			movieRepo: movies,
			generate: func(_ context.Context, p string) (string, error) {
				prompt = p
				return "```json\n" + recommendationJSON(t, "Heat", "Blade Runner", "The Thing", "Se7en", "Collateral") + "\n```", nil
			},
		}

		recs, err := svc.GetRecommendations(ctx, "alice1", "alice1")
		require.NoError(t, err)
		require.Len(t, recs, 5)
		assert.Equal(t, "Heat", recs[0].Title)

		assert.Contains(t, prompt, "- Title: Alien")
		assert.Contains(t, prompt, "Heat, Blade Runner, The Thing, Se7en, Collateral")
		assert.NotContains(t, prompt, "Alien, Heat")
	})

	t.Run("retries an empty response", func(t *testing.T) {
		users := &fakeUserRepo{}
		movies := &fakeMovieRepo{}
		catalog := seedCatalog(movies, "Alien", "Heat", "Blade Runner", "The Thing", "Se7en", "Collateral")
		user := seedUser(t, users, "alice1", "secret", "alice@example.com")
		user.Favourites = append(user.Favourites, catalog[0].ID)

		calls := 0
		svc := &recommendationService{
			userRepo:  users,
			movieRepo: movies,
			generate: func(context.Context, string) (string, error) {
				calls++
				if calls == 1 {
					return "", nil
				}
				return recommendationJSON(t, "Heat", "Blade Runner", "The Thing", "Se7en", "Collateral"), nil
			},
		}

		recs, err := svc.GetRecommendations(ctx, "alice1", "alice1")
		require.NoError(t, err)
		assert.Len(t, recs, 5)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after repeated short answers", func(t *testing.T) {
		users := &fakeUserRepo{}
		movies := &fakeMovieRepo{}
		catalog := seedCatalog(movies, "Alien", "Heat", "Blade Runner", "The Thing", "Se7en", "Collateral")
		user := seedUser(t, users, "alice1", "secret", "alice@example.com")
		user.Favourites = append(user.Favourites, catalog[0].ID)

		calls := 0
		svc := &recommendationService{
			userRepo:  users,
			movieRepo: movies,
			generate: func(context.Context, string) (string, error) {
				calls++
				return recommendationJSON(t, "Heat", "Blade Runner"), nil
			},
		}

		_, err := svc.GetRecommendations(ctx, "alice1", "alice1")
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.True(t, strings.Contains(err.Error(), "after multiple retries"))
	})

	t.Run("requires favourites", func(t *testing.T) {
		users := &fakeUserRepo{}
		seedUser(t, users, "alice1", "secret", "alice@example.com")
		svc := &recommendationService{userRepo: users, movieRepo: &fakeMovieRepo{}}

		_, err := svc.GetRecommendations(ctx, "alice1", "alice1")
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("requires a catalog big enough to choose from", func(t *testing.T) {
		users := &fakeUserRepo{}
		movies := &fakeMovieRepo{}
		catalog := seedCatalog(movies, "Alien", "Heat")
		user := seedUser(t, users, "alice1", "secret", "alice@example.com")
		user.Favourites = append(user.Favourites, catalog[0].ID)
		svc := &recommendationService{userRepo: users, movieRepo: movies}

		_, err := svc.GetRecommendations(ctx, "alice1", "alice1")
		assert.EqualError(t, err, "Not enough movies in the catalog to generate recommendations")
	})

	t.Run("forbids reading another user's recommendations", func(t *testing.T) {
		svc := &recommendationService{userRepo: &fakeUserRepo{}, movieRepo: &fakeMovieRepo{}}

		_, err := svc.GetRecommendations(ctx, "alice1", "bob22")
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}
