// Package validation implements the field rules for user, movie, director and
// genre payloads. Rules that consult persisted state take their lookup
// dependencies explicitly; nothing in this package reaches for globals or the
// request context.
package validation

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"myflix/internal/apperr"
	"myflix/internal/models"
)

// Assertion selects the direction of an existence check. A value being
// claimed as new must not exist yet; a value identifying a target must
// already exist. Callers state the direction explicitly at every invocation.
type Assertion int

const (
	AssertNew Assertion = iota
	AssertExisting
)

const bcryptCost = 8

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

var validate = validator.New()

// UserLookup answers username existence probes.
type UserLookup interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// MovieLookup answers movie existence probes by id and by title.
type MovieLookup interface {
	IDExists(ctx context.Context, id primitive.ObjectID) (bool, error)
	TitleExists(ctx context.Context, title string) (bool, error)
}

// NameLookup answers name existence probes for directors and genres.
type NameLookup interface {
	NameExists(ctx context.Context, name string) (bool, error)
}

// Registry holds one rule chain per validated field. Each chain runs in
// declared order and stops at the first broken rule, returning that rule's
// message only.
type Registry struct {
	users     UserLookup
	movies    MovieLookup
	directors NameLookup
	genres    NameLookup
}

func NewRegistry(users UserLookup, movies MovieLookup, directors, genres NameLookup) *Registry {
	return &Registry{users: users, movies: movies, directors: directors, genres: genres}
}

// Username checks length, charset, then existence in the direction given by
// assert.
func (r *Registry) Username(ctx context.Context, username string, assert Assertion) error {
	if len(username) < 5 {
		return apperr.Validation("Username must be at least 5 characters long")
	}
	if !usernamePattern.MatchString(username) {
		return apperr.Validation("Username must contain only letters and numbers")
	}

	exists, err := r.users.UsernameExists(ctx, username)
	if err != nil {
		return apperr.Storage(err)
	}
	if assert == AssertNew && exists {
		return apperr.Validationf("Username %s already exists", username)
	}
	if assert == AssertExisting && !exists {
		return apperr.Newf(apperr.KindNotFound, "User %s not found", username)
	}
	return nil
}

// Password rejects empty and unchanged passwords and returns the bcrypt hash
// to persist. current is nil on signup, where no unchanged check applies.
// Plaintext never leaves this function.
func (r *Registry) Password(plaintext string, current *models.User) (string, error) {
	if plaintext == "" {
		return "", apperr.Validation("Password must not be empty")
	}
	if current != nil {
		if bcrypt.CompareHashAndPassword([]byte(current.Password), []byte(plaintext)) == nil {
			return "", apperr.Validation("New password must differ from the current password")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validation("Password must be at most 72 characters long")
		}
		return "", err
	}
	return string(hash), nil
}

// Email checks syntax, normalizes, and on update rejects an unchanged
// address. Returns the normalized address to persist.
func (r *Registry) Email(email string, current *models.User) (string, error) {
	if err := validate.Var(email, "required,email"); err != nil {
		return "", apperr.Validation("Email must be a valid email address")
	}

	normalized := NormalizeEmail(email)
	if current != nil && normalized == current.Email {
		return "", apperr.Validation("New email must differ from the current email")
	}
	return normalized, nil
}

// Birthday parses an ISO-8601 date and on update rejects an unchanged value.
func (r *Registry) Birthday(raw string, current *models.User) (time.Time, error) {
	parsed, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, apperr.Validation("Birthday must be a valid ISO-8601 date")
	}
	if current != nil && current.Birthday != nil && parsed.Equal(*current.Birthday) {
		return time.Time{}, apperr.Validation("New birthday must differ from the current birthday")
	}
	return parsed, nil
}

// Favourites checks every id for validity and existence, then on update
// rejects a list identical to the current one. Lists compare positionally:
// a different length or a different id at any index counts as a change, so
// reordering is a change while set equality is not enough.
func (r *Registry) Favourites(ctx context.Context, raw []string, current *models.User) ([]primitive.ObjectID, error) {
	ids, err := CheckRefs(ctx, r.movies, "Movie", raw)
	if err != nil {
		return nil, err
	}
	if current != nil && !listChanged(ids, current.Favourites) {
		return nil, apperr.Validation("New favourites must differ from the current favourites")
	}
	return ids, nil
}

// MovieTitle checks presence then existence in the direction given by assert.
func (r *Registry) MovieTitle(ctx context.Context, title string, assert Assertion) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("Movie title must not be empty")
	}

	exists, err := r.movies.TitleExists(ctx, title)
	if err != nil {
		return apperr.Storage(err)
	}
	if assert == AssertNew && exists {
		return apperr.Validationf("Movie %s already exists", title)
	}
	if assert == AssertExisting && !exists {
		return apperr.Newf(apperr.KindNotFound, "Movie %s not found", title)
	}
	return nil
}

// DirectorName checks minimum length then existence in the direction given by
// assert.
func (r *Registry) DirectorName(ctx context.Context, name string, assert Assertion) error {
	if len(name) < 3 {
		return apperr.Validation("Director name must be at least 3 characters long")
	}

	exists, err := r.directors.NameExists(ctx, name)
	if err != nil {
		return apperr.Storage(err)
	}
	if assert == AssertNew && exists {
		return apperr.Validationf("Director %s already exists", name)
	}
	if assert == AssertExisting && !exists {
		return apperr.Newf(apperr.KindNotFound, "Director %s not found", name)
	}
	return nil
}

// GenreName checks presence then existence in the direction given by assert.
func (r *Registry) GenreName(ctx context.Context, name string, assert Assertion) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("Genre name must not be empty")
	}

	exists, err := r.genres.NameExists(ctx, name)
	if err != nil {
		return apperr.Storage(err)
	}
	if assert == AssertNew && exists {
		return apperr.Validationf("Genre %s already exists", name)
	}
	if assert == AssertExisting && !exists {
		return apperr.Newf(apperr.KindNotFound, "Genre %s not found", name)
	}
	return nil
}

func listChanged(next, current []primitive.ObjectID) bool {
	if len(next) != len(current) {
		return true
	}
	for i := range next {
		if next[i] != current[i] {
			return true
		}
	}
	return false
}
