package validation

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"myflix/internal/apperr"
)

// IDLookup answers existence probes for a single collection.
type IDLookup interface {
	IDExists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// CheckRefs confirms each raw id is a well-formed ObjectID referencing an
// existing document, failing fast on the first bad id. Ids are probed one at
// a time, so a list containing duplicates validates correctly. A lookup fault
// surfaces as a storage error, never as a missing reference.
func CheckRefs(ctx context.Context, lookup IDLookup, label string, rawIDs []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil {
			return nil, apperr.Validationf("%s id %q is not a valid id", label, raw)
		}

		exists, err := lookup.IDExists(ctx, id)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		if !exists {
			return nil, apperr.Validationf("%s %s does not exist", label, id.Hex())
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CheckRef is the single-id variant of CheckRefs.
func CheckRef(ctx context.Context, lookup IDLookup, label, rawID string) (primitive.ObjectID, error) {
	ids, err := CheckRefs(ctx, lookup, label, []string{rawID})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return ids[0], nil
}
