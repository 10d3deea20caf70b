package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"myflix/internal/models"
	"myflix/internal/repositories"
	"myflix/internal/validation"
)

// In-memory repository fakes. They mimic the storage semantics the services
// rely on: find methods return (nil, nil) for missing documents, update and
// delete report matched/deleted counts.

type fakeUserRepo struct {
	users       []*models.User
	createErr   error
	findErr     error
	existsCalls int
	findCalls   int
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, userID primitive.ObjectID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	f.existsCalls++
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateByUsername(_ context.Context, username string, updateFields bson.M) (*mongo.UpdateResult, error) {
	for _, u := range f.users {
		if u.Username != username {
			continue
		}
		if v, ok := updateFields["username"].(string); ok {
			u.Username = v
		}
		if v, ok := updateFields["password"].(string); ok {
			u.Password = v
		}
		if v, ok := updateFields["email"].(string); ok {
			u.Email = v
		}
		if v, ok := updateFields["birthday"].(time.Time); ok {
			u.Birthday = &v
		}
		if v, ok := updateFields["favourites"].([]primitive.ObjectID); ok {
			u.Favourites = v
		}
		if v, ok := updateFields["updated_at"].(time.Time); ok {
			u.UpdatedAt = v
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return &mongo.UpdateResult{MatchedCount: 0}, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID primitive.ObjectID, passwordHash string) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.Password = passwordHash
			return nil
		}
	}
	return nil
}

func (f *fakeUserRepo) DeleteByUsername(_ context.Context, username string) (*mongo.DeleteResult, error) {
	for i, u := range f.users {
		if u.Username == username {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{DeletedCount: 0}, nil
}

func (f *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

type fakeMovieRepo struct {
	movies   []models.Movie
	idCalls  int
	allCalls int
}

func (f *fakeMovieRepo) Create(_ context.Context, movie *models.Movie) (*models.Movie, error) {
	f.movies = append(f.movies, *movie)
	return movie, nil
}

func (f *fakeMovieRepo) FindByTitle(_ context.Context, title string) (*models.Movie, error) {
	for i := range f.movies {
		if f.movies[i].Title == title {
			return &f.movies[i], nil
		}
	}
	return nil, nil
}

func (f *fakeMovieRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Movie, error) {
	byID := make(map[primitive.ObjectID]models.Movie, len(f.movies))
	for _, m := range f.movies {
		byID[m.ID] = m
	}
	var out []models.Movie
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovieRepo) FindAll(_ context.Context, _ repositories.MovieFilter) ([]models.Movie, error) {
	f.allCalls++
	return append([]models.Movie{}, f.movies...), nil
}

func (f *fakeMovieRepo) IDExists(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.idCalls++
	for _, m := range f.movies {
		if m.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMovieRepo) TitleExists(_ context.Context, title string) (bool, error) {
	for _, m := range f.movies {
		if m.Title == title {
			return true, nil
		}
	}
	return false, nil
}

type fakeGenreRepo struct {
	genres []models.Genre
}

func (f *fakeGenreRepo) Create(_ context.Context, genre *models.Genre) (*models.Genre, error) {
	f.genres = append(f.genres, *genre)
	return genre, nil
}

func (f *fakeGenreRepo) FindByName(_ context.Context, name string) (*models.Genre, error) {
	for i := range f.genres {
		if f.genres[i].Name == name {
			return &f.genres[i], nil
		}
	}
	return nil, nil
}

func (f *fakeGenreRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Genre, error) {
	for i := range f.genres {
		if f.genres[i].ID == id {
			return &f.genres[i], nil
		}
	}
	return nil, nil
}

func (f *fakeGenreRepo) FindAll(_ context.Context) ([]models.Genre, error) {
	return append([]models.Genre{}, f.genres...), nil
}

func (f *fakeGenreRepo) NameExists(_ context.Context, name string) (bool, error) {
	for _, g := range f.genres {
		if g.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGenreRepo) IDExists(_ context.Context, id primitive.ObjectID) (bool, error) {
	for _, g := range f.genres {
		if g.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeDirectorRepo struct {
	directors []models.Director
}

func (f *fakeDirectorRepo) Create(_ context.Context, director *models.Director) (*models.Director, error) {
	f.directors = append(f.directors, *director)
	return director, nil
}

func (f *fakeDirectorRepo) FindByName(_ context.Context, name string) (*models.Director, error) {
	for i := range f.directors {
		if f.directors[i].Name == name {
			return &f.directors[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDirectorRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Director, error) {
	for i := range f.directors {
		if f.directors[i].ID == id {
			return &f.directors[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDirectorRepo) FindAll(_ context.Context) ([]models.Director, error) {
	return append([]models.Director{}, f.directors...), nil
}

func (f *fakeDirectorRepo) NameExists(_ context.Context, name string) (bool, error) {
	for _, d := range f.directors {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDirectorRepo) IDExists(_ context.Context, id primitive.ObjectID) (bool, error) {
	for _, d := range f.directors {
		if d.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeOTPRepo struct {
	otps []*models.OTP
}

func (f *fakeOTPRepo) Create(_ context.Context, otp *models.OTP) (*models.OTP, error) {
	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = time.Now()
	f.otps = append(f.otps, otp)
	return otp, nil
}

func (f *fakeOTPRepo) FindByUserIDAndOTPCode(_ context.Context, userID primitive.ObjectID, otpCode string, purpose string) (*models.OTP, error) {
	for _, otp := range f.otps {
		if otp.UserID == userID && otp.OTPCode == otpCode && otp.Purpose == purpose && !otp.IsUsed && otp.ExpiresAt.After(time.Now()) {
			return otp, nil
		}
	}
	return nil, nil
}

func (f *fakeOTPRepo) MarkAsUsed(_ context.Context, otpID primitive.ObjectID) error {
	for _, otp := range f.otps {
		if otp.ID == otpID {
			otp.IsUsed = true
			return nil
		}
	}
	return nil
}

func (f *fakeOTPRepo) DeleteExpiredOTPs(_ context.Context) error {
	return nil
}

type recordingEmailService struct {
	to      []string
	subject []string
	body    []string
	err     error
}

func (f *recordingEmailService) SendEmail(to, subject, msg string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.subject = append(f.subject, subject)
	f.body = append(f.body, msg)
	return nil
}

func newTestRegistry(users *fakeUserRepo, movies *fakeMovieRepo, directors *fakeDirectorRepo, genres *fakeGenreRepo) *validation.Registry {
	return validation.NewRegistry(users, movies, directors, genres)
}

// newTestUserService builds the service without promauto so tests can
// construct it repeatedly.
func newTestUserService(users *fakeUserRepo, movies *fakeMovieRepo) *userService {
	registry := newTestRegistry(users, movies, &fakeDirectorRepo{}, &fakeGenreRepo{})
	return &userService{
		userRepo:        users,
		movieRepo:       movies,
		registry:        registry,
		assembler:       validation.NewAssembler(registry),
		totalUsersGauge: prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_total_users"}),
	}
}
