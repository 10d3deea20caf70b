package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"myflix/internal/apperr"
	"myflix/internal/metrics"
	"myflix/internal/models"
	"myflix/internal/repositories"
)

const recommendationCount = 5

// RecommendationService suggests catalog movies to a user based on their
// favourites.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, currentUsername, targetUsername string) ([]models.MovieRecommendation, error)
}

type generateFunc func(ctx context.Context, prompt string) (string, error)

type recommendationService struct {
	userRepo  repositories.UserRepository
	movieRepo repositories.MovieRepository
	generate  generateFunc
}

func NewRecommendationService(userRepo repositories.UserRepository, movieRepo repositories.MovieRepository) RecommendationService {
	return &recommendationService{
		userRepo:  userRepo,
		movieRepo: movieRepo,
		generate:  generateWithGemini,
	}
}

func generateWithGemini(ctx context.Context, prompt string) (string, error) {
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		return "", errors.New("missing api key")
	}

	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel("gemini-2.5-flash"))
	if err != nil {
		return "", fmt.Errorf("failed to create Google AI LLM: %w", err)
	}

	return llms.GenerateFromSinglePrompt(ctx, llm, prompt)
}

func (s *recommendationService) GetRecommendations(ctx context.Context, currentUsername, targetUsername string) ([]models.MovieRecommendation, error) {
	if currentUsername != targetUsername {
		return nil, apperr.Forbidden("You can only view your own recommendations")
	}

	user, err := s.userRepo.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "User %s not found", targetUsername)
	}
	if len(user.Favourites) == 0 {
		return nil, apperr.Validation("Add some favourites to get recommendations")
	}

	favourites, err := s.movieRepo.FindByIDs(ctx, user.Favourites)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	catalog, err := s.movieRepo.FindAll(ctx, repositories.MovieFilter{})
	if err != nil {
		return nil, apperr.Storage(err)
	}

	candidates := candidateTitles(catalog, favourites)
	if len(candidates) < recommendationCount {
		return nil, apperr.Validation("Not enough movies in the catalog to generate recommendations")
	}

	prompt := buildRecommendationPrompt(favourites, candidates)

	const maxRetries = 3
	for i := 0; i < maxRetries; i++ {
		llmResponse, err := s.generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("failed to generate recommendations from LLM on retry %d: %w", i+1, err)
		}

		if llmResponse == "" {
			log.Warn().Int("retry", i+1).Msg("LLM returned an empty response")
			continue
		}

		cleanedResponse := strings.TrimSpace(llmResponse)
		if strings.HasPrefix(cleanedResponse, "```json") {
			cleanedResponse = strings.TrimPrefix(cleanedResponse, "```json")
		}
		if strings.HasSuffix(cleanedResponse, "```") {
			cleanedResponse = strings.TrimSuffix(cleanedResponse, "```")
		}
		cleanedResponse = strings.TrimSpace(cleanedResponse)

		var recommendations []models.MovieRecommendation
		if err := json.Unmarshal([]byte(cleanedResponse), &recommendations); err != nil {
			log.Error().Err(err).Int("retry", i+1).Str("raw_response", llmResponse).Msg("Failed to parse LLM response as JSON")
			return nil, fmt.Errorf("failed to parse LLM response as JSON on retry %d: %w", i+1, err)
		}

		if len(recommendations) == recommendationCount {
			log.Info().Str("username", targetUsername).Msg("Recommendations generated successfully")
			metrics.RecommendationsGeneratedTotal.Inc()
			return recommendations, nil
		}
		log.Warn().Int("retry", i+1).Int("count", len(recommendations)).Msg("LLM returned unexpected number of recommendations. Retrying...")
	}

	return nil, fmt.Errorf("LLM failed to generate exactly %d recommendations after multiple retries", recommendationCount)
}

// candidateTitles is the catalog minus the user's favourites, in catalog
// order.
func candidateTitles(catalog, favourites []models.Movie) []string {
	seen := make(map[string]struct{}, len(favourites))
	for _, m := range favourites {
		seen[m.Title] = struct{}{}
	}

	var titles []string
	for _, m := range catalog {
		if _, ok := seen[m.Title]; ok {
			continue
		}
		titles = append(titles, m.Title)
	}
	return titles
}

func buildRecommendationPrompt(favourites []models.Movie, candidates []string) string {
	var favouritesStr strings.Builder
	for _, m := range favourites {
		fmt.Fprintf(&favouritesStr, "- Title: %s, Genre: %s, Director: %s, Actors: %s\n",
			m.Title,
			m.Genre.Name,
			m.Director.Name,
			strings.Join(m.Actors, ", "))
	}

	return fmt.Sprintf(`You are a movie recommendation assistant for a streaming catalog.
The user's favourite movies are:
%s

Based on these, recommend %d distinct movies the user might enjoy.
IMPORTANT: The recommended titles MUST be chosen ONLY from the following catalog titles:
%s
Return ONLY the JSON array of objects, with no additional text or markdown formatting outside the JSON.
The JSON array should contain exactly %d objects, each with the following structure:
{
  "title": "string",
  "reason": "string"
}`, favouritesStr.String(), recommendationCount, strings.Join(candidates, ", "), recommendationCount)
}
