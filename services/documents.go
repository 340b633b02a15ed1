package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
)

// Document keys. Aggregates live whole in the storage table, one key per
// collection plus one bracket document per competition cell.
const (
	docPlayers     = "tm:players"
	docTournaments = "tm:tournaments"
	docWeights     = "tm:weights"
)

// casAttempts bounds optimistic retries on document writes. Contention on
// these aggregates is operator-scale, so a handful of attempts is plenty.
const casAttempts = 3

func bracketDocKey(bracket models.AgeBracket, tier models.SkillTier) string {
	return fmt.Sprintf("tm:bracket:%s:%s", bracket, tier)
}

func fixturesDocKey(tournamentID string) string {
	return fmt.Sprintf("tm:fixtures:%s", tournamentID)
}

func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrDocumentNotFound)
}

// loadInto unmarshals the document at key into dst. A missing document is
// not an error; ok reports whether one existed.
func loadInto(ctx context.Context, repo repositories.DocumentRepository, key string, dst interface{}) (version int64, ok bool, err error) {
	doc, err := repo.Load(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to load %q: %w", key, err)
	}
	if err := json.Unmarshal(doc.Value, dst); err != nil {
		return 0, false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return doc.Version, true, nil
}

// mutateDocument runs a read-modify-write cycle on one document with
// optimistic concurrency, retrying a few times on version conflicts
// before giving up with ErrDocumentConflict.
func mutateDocument[T any](ctx context.Context, repo repositories.DocumentRepository, key string, mutate func(current T) (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt < casAttempts; attempt++ {
		var current T
		version, _, err := loadInto(ctx, repo, key, &current)
		if err != nil {
			return zero, err
		}

		next, err := mutate(current)
		if err != nil {
			return zero, err
		}

		_, err = repo.CompareAndSave(ctx, key, next, version)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, repositories.ErrDocumentVersionConflict) {
			return zero, err
		}
	}
	return zero, ErrDocumentConflict
}
