package validation

import (
	"bytes"
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"

	"myflix/internal/apperr"
	"myflix/internal/models"
)

// userUpdateFields is the recognized field set for a profile update, in
// validation priority order.
var userUpdateFields = []string{"username", "password", "email", "birthday", "favourites"}

// Assembler turns a raw partial-update payload into the validated, normalized
// projection handed to the mutation step. Unknown fields reject the whole
// request; the first failing field aborts before any later field is
// evaluated.
type Assembler struct {
	registry *Registry
}

func NewAssembler(registry *Registry) *Assembler {
	return &Assembler{registry: registry}
}

// Assemble validates the payload against current, the loaded owner of the
// profile being updated. Absent fields stay untouched. On success the
// returned projection carries the hashed password, normalized email, parsed
// birthday and resolved favourite ids.
func (a *Assembler) Assemble(ctx context.Context, payload []byte, current *models.User) (bson.M, error) {
	fields, err := decodeUpdatePayload(payload)
	if err != nil {
		return nil, err
	}

	projection := bson.M{}
	for _, name := range userUpdateFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}

		switch name {
		case "username":
			var username string
			if err := json.Unmarshal(raw, &username); err != nil {
				return nil, apperr.Validation("Username must be a string")
			}
			if err := a.registry.Username(ctx, username, AssertNew); err != nil {
				return nil, err
			}
			projection["username"] = username

		case "password":
			var password string
			if err := json.Unmarshal(raw, &password); err != nil {
				return nil, apperr.Validation("Password must be a string")
			}
			hash, err := a.registry.Password(password, current)
			if err != nil {
				return nil, err
			}
			projection["password"] = hash

		case "email":
			var email string
			if err := json.Unmarshal(raw, &email); err != nil {
				return nil, apperr.Validation("Email must be a string")
			}
			normalized, err := a.registry.Email(email, current)
			if err != nil {
				return nil, err
			}
			projection["email"] = normalized

		case "birthday":
			var birthday string
			if err := json.Unmarshal(raw, &birthday); err != nil {
				return nil, apperr.Validation("Birthday must be a string in ISO-8601 format")
			}
			parsed, err := a.registry.Birthday(birthday, current)
			if err != nil {
				return nil, err
			}
			projection["birthday"] = parsed

		case "favourites":
			var favourites []string
			if err := json.Unmarshal(raw, &favourites); err != nil {
				return nil, apperr.Validation("Favourites must be an array of movie ids")
			}
			ids, err := a.registry.Favourites(ctx, favourites, current)
			if err != nil {
				return nil, err
			}
			projection["favourites"] = ids
		}
	}

	return projection, nil
}

// decodeUpdatePayload enforces the strict update schema: a non-empty JSON
// object whose every key belongs to the recognized field set.
func decodeUpdatePayload(payload []byte) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, apperr.BadInput("Request body must not be empty")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, apperr.BadInput("Invalid JSON payload")
	}
	if len(fields) == 0 {
		return nil, apperr.BadInput("Update payload must contain at least one field")
	}

	for name := range fields {
		if !isUserUpdateField(name) {
			return nil, apperr.Validationf("Unknown field %q in update payload", name)
		}
	}
	return fields, nil
}

func isUserUpdateField(name string) bool {
	for _, f := range userUpdateFields {
		if f == name {
			return true
		}
	}
	return false
}
