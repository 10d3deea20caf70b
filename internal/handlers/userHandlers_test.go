package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"myflix/internal/apperr"
	"myflix/internal/models"
	"myflix/internal/utils"
)

type stubUserService struct {
	registerFn        func(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	loginFn           func(ctx context.Context, creds *models.LoginRequest) (string, *models.User, error)
	getProfileFn      func(ctx context.Context, currentUsername, targetUsername string) (*models.User, error)
	updateProfileFn   func(ctx context.Context, currentUsername, targetUsername string, payload []byte) (*models.User, error)
	deleteAccountFn   func(ctx context.Context, currentUsername, targetUsername string) error
	addFavouriteFn    func(ctx context.Context, currentUsername, targetUsername, movieID string) ([]primitive.ObjectID, error)
	removeFavouriteFn func(ctx context.Context, currentUsername, targetUsername, movieID string) ([]primitive.ObjectID, error)
}

func (s *stubUserService) Register(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	return s.registerFn(ctx, req)
}

func (s *stubUserService) Login(ctx context.Context, creds *models.LoginRequest) (string, *models.User, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubUserService) GetProfile(ctx context.Context, currentUsername, targetUsername string) (*models.User, error) {
	return s.getProfileFn(ctx, currentUsername, targetUsername)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, currentUsername, targetUsername string, payload []byte) (*models.User, error) {
	return s.updateProfileFn(ctx, currentUsername, targetUsername, payload)
}

func (s *stubUserService) DeleteAccount(ctx context.Context, currentUsername, targetUsername string) error {
	return s.deleteAccountFn(ctx, currentUsername, targetUsername)
}

func (s *stubUserService) AddFavourite(ctx context.Context, currentUsername, targetUsername, movieID string) ([]primitive.ObjectID, error) {
	return s.addFavouriteFn(ctx, currentUsername, targetUsername, movieID)
}

func (s *stubUserService) RemoveFavourite(ctx context.Context, currentUsername, targetUsername, movieID string) ([]primitive.ObjectID, error) {
	return s.removeFavouriteFn(ctx, currentUsername, targetUsername, movieID)
}

// authedRequest builds a request carrying the authenticated username and the
// given mux path variables, the way the auth middleware and router would.
func authedRequest(method, target, body, username string, vars map[string]string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if username != "" {
		ctx := context.WithValue(req.Context(), utils.UsernameKey, username)
		req = req.WithContext(ctx)
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func TestRegisterHandler(t *testing.T) {
	t.Run("responds 201 with an acknowledgement only", func(t *testing.T) {
		svc := &stubUserService{
			registerFn: func(_ context.Context, req *models.SignupRequest) (*models.User, error) {
				assert.Equal(t, "alice1", req.Username)
				return &models.User{ID: primitive.NewObjectID(), Username: req.Username}, nil
			},
		}
		h := NewUserHandler(svc)

		rec := httptest.NewRecorder()
		h.Register(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(
			`{"username": "alice1", "password": "secret", "email": "alice@example.com"}`)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"message": "User created successfully"}`, rec.Body.String())
	})

	t.Run("responds 400 to a malformed body", func(t *testing.T) {
		h := NewUserHandler(&stubUserService{})

		rec := httptest.NewRecorder()
		h.Register(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error": "Invalid JSON payload"}`, rec.Body.String())
	})

	t.Run("maps a validation rejection to 422", func(t *testing.T) {
		svc := &stubUserService{
			registerFn: func(context.Context, *models.SignupRequest) (*models.User, error) {
				return nil, apperr.Validation("Username must be at least 5 characters long")
			},
		}
		h := NewUserHandler(svc)

		rec := httptest.NewRecorder()
		h.Register(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(
			`{"username": "bob", "password": "secret", "email": "bob@example.com"}`)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"error": "Username must be at least 5 characters long"}`, rec.Body.String())
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("responds with the token and username", func(t *testing.T) {
		svc := &stubUserService{
			loginFn: func(_ context.Context, creds *models.LoginRequest) (string, *models.User, error) {
				return "token-123", &models.User{Username: creds.Username}, nil
			},
		}
		h := NewUserHandler(svc)

		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(
			`{"username": "alice1", "password": "secret"}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"token": "token-123", "username": "alice1"}`, rec.Body.String())
	})

	t.Run("maps bad credentials to 401", func(t *testing.T) {
		svc := &stubUserService{
			loginFn: func(context.Context, *models.LoginRequest) (string, *models.User, error) {
				return "", nil, apperr.Unauthorized("Invalid credentials")
			},
		}
		h := NewUserHandler(svc)

		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(
			`{"username": "alice1", "password": "wrong"}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestProfileHandlers(t *testing.T) {
	t.Run("passes identity and path target to the service", func(t *testing.T) {
		svc := &stubUserService{
			getProfileFn: func(_ context.Context, currentUsername, targetUsername string) (*models.User, error) {
				assert.Equal(t, "alice1", currentUsername)
				assert.Equal(t, "bob22", targetUsername)
				return nil, apperr.Forbidden("You can only view your own profile")
			},
		}
		h := NewUserHandler(svc)

		rec := httptest.NewRecorder()
		h.GetProfile(rec, authedRequest(http.MethodGet, "/users/bob22", "", "alice1", map[string]string{"username": "bob22"}))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error": "You can only view your own profile"}`, rec.Body.String())
	})

	t.Run("responds 401 when no identity is in the context", func(t *testing.T) {
		h := NewUserHandler(&stubUserService{})

		rec := httptest.NewRecorder()
		h.GetProfile(rec, authedRequest(http.MethodGet, "/users/alice1", "", "", map[string]string{"username": "alice1"}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("hands the raw body to the update pipeline", func(t *testing.T) {
		var captured []byte
		svc := &stubUserService{
			updateProfileFn: func(_ context.Context, _, _ string, payload []byte) (*models.User, error) {
				captured = payload
				return &models.User{Username: "alice2"}, nil
			},
		}
		h := NewUserHandler(svc)

		body := `{"username": "alice2", "favourites": []}`
		rec := httptest.NewRecorder()
		h.UpdateProfile(rec, authedRequest(http.MethodPut, "/users/alice1", body, "alice1", map[string]string{"username": "alice1"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, body, string(captured))
	})

	t.Run("acknowledges a deletion", func(t *testing.T) {
		svc := &stubUserService{
			deleteAccountFn: func(_ context.Context, _, targetUsername string) error {
				assert.Equal(t, "alice1", targetUsername)
				return nil
			},
		}
		h := NewUserHandler(svc)

		rec := httptest.NewRecorder()
		h.DeleteAccount(rec, authedRequest(http.MethodDelete, "/users/alice1", "", "alice1", map[string]string{"username": "alice1"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message": "User deleted successfully"}`, rec.Body.String())
	})
}

func TestFavouriteHandlers(t *testing.T) {
	movieID := primitive.NewObjectID()

	t.Run("returns the new list after an append", func(t *testing.T) {
		svc := &stubUserService{
			addFavouriteFn: func(_ context.Context, _, _, gotMovieID string) ([]primitive.ObjectID, error) {
				assert.Equal(t, movieID.Hex(), gotMovieID)
				return []primitive.ObjectID{movieID}, nil
			},
		}
		h := NewUserHandler(svc)

		rec := httptest.NewRecorder()
		h.AddFavourite(rec, authedRequest(http.MethodPost, "/users/alice1/favourites/"+movieID.Hex(), "", "alice1",
			map[string]string{"username": "alice1", "movieID": movieID.Hex()}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"favourites": ["`+movieID.Hex()+`"]}`, rec.Body.String())
	})

	t.Run("maps removing an unlisted movie to 422", func(t *testing.T) {
		svc := &stubUserService{
			removeFavouriteFn: func(_ context.Context, _, _, gotMovieID string) ([]primitive.ObjectID, error) {
				return nil, apperr.Validationf("Movie %s is not in favourites", gotMovieID)
			},
		}
		h := NewUserHandler(svc)

		rec := httptest.NewRecorder()
		h.RemoveFavourite(rec, authedRequest(http.MethodDelete, "/users/alice1/favourites/"+movieID.Hex(), "", "alice1",
			map[string]string{"username": "alice1", "movieID": movieID.Hex()}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
