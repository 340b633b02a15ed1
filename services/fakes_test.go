package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
)

// fakeDocumentRepository keeps documents in memory with the same version
// semantics as the Postgres implementation.
type fakeDocumentRepository struct {
	mu   sync.Mutex
	docs map[string]repositories.Document
}

func newFakeDocumentRepository() *fakeDocumentRepository {
	return &fakeDocumentRepository{docs: make(map[string]repositories.Document)}
}

func (r *fakeDocumentRepository) put(key string, value interface{}) {
	raw, _ := json.Marshal(value)
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.docs[key]
	r.docs[key] = repositories.Document{Key: key, Value: raw, Version: doc.Version + 1}
}

func (r *fakeDocumentRepository) Load(_ context.Context, key string) (*repositories.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[key]
	if !ok {
		return nil, repositories.ErrDocumentNotFound
	}
	copied := doc
	return &copied, nil
}

func (r *fakeDocumentRepository) Save(_ context.Context, key string, value interface{}) (int64, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.docs[key]
	next := repositories.Document{Key: key, Value: raw, Version: doc.Version + 1}
	r.docs[key] = next
	return next.Version, nil
}

func (r *fakeDocumentRepository) CompareAndSave(_ context.Context, key string, value interface{}, expectedVersion int64) (int64, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[key]
	if expectedVersion == 0 {
		if ok {
			return 0, repositories.ErrDocumentVersionConflict
		}
		r.docs[key] = repositories.Document{Key: key, Value: raw, Version: 1}
		return 1, nil
	}
	if !ok || doc.Version != expectedVersion {
		return 0, repositories.ErrDocumentVersionConflict
	}
	next := repositories.Document{Key: key, Value: raw, Version: doc.Version + 1}
	r.docs[key] = next
	return next.Version, nil
}

func (r *fakeDocumentRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[key]; !ok {
		return repositories.ErrDocumentNotFound
	}
	delete(r.docs, key)
	return nil
}

// fakeResultRepository implements the ledger contract in memory: mirrored
// pairs, fixture-keyed upserts, and conflict detection against the last
// observed score.
type fakeResultRepository struct {
	mu      sync.Mutex
	results map[string]*models.TournamentResult // keyed tournamentID + "/" + playerID
	nextID  int
}

func newFakeResultRepository() *fakeResultRepository {
	return &fakeResultRepository{results: make(map[string]*models.TournamentResult)}
}

func (r *fakeResultRepository) key(tournamentID, playerID string) string {
	return tournamentID + "/" + playerID
}

func (r *fakeResultRepository) id() string {
	r.nextID++
	return fmt.Sprintf("rec-%d", r.nextID)
}

func (r *fakeResultRepository) row(tournamentID, playerID string) *models.TournamentResult {
	key := r.key(tournamentID, playerID)
	if r.results[key] == nil {
		r.results[key] = &models.TournamentResult{
			ID:           key,
			PlayerID:     playerID,
			TournamentID: tournamentID,
		}
	}
	return r.results[key]
}

func hasStoredScore(score string) bool {
	switch score {
	case "", "0:0", "0:0 0:0":
		return false
	}
	return true
}

func (r *fakeResultRepository) upsertOne(row *models.TournamentResult, fixtureID string, record models.MatchRecord, lastObserved *string) (string, error) {
	for i := range row.Matches {
		existing := &row.Matches[i]
		if existing.FixtureID == nil || *existing.FixtureID != fixtureID {
			continue
		}
		if hasStoredScore(existing.Score) && existing.Score != record.Score {
			if lastObserved == nil || *lastObserved != existing.Score {
				return "", repositories.ErrResultConflict
			}
		}
		record.ID = existing.ID
		*existing = record
		return existing.ID, nil
	}
	record.ID = r.id()
	row.Matches = append(row.Matches, record)
	return record.ID, nil
}

func (r *fakeResultRepository) UpsertFixtureResult(_ context.Context, params repositories.UpsertFixtureResultParams) (*repositories.FixtureWriteReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerRow := r.row(params.TournamentID, params.PlayerID)
	opponentRow := r.row(params.TournamentID, params.OpponentID)

	playerID, err := r.upsertOne(playerRow, params.FixtureID, params.PlayerRecord, params.LastObservedScore)
	if err != nil {
		return nil, err
	}
	opponentID, err := r.upsertOne(opponentRow, params.FixtureID, params.OpponentRecord, params.LastObservedOpponentScore)
	if err != nil {
		return nil, err
	}

	playerRow.Version++
	opponentRow.Version++
	return &repositories.FixtureWriteReceipt{
		PlayerRecordID:   playerID,
		OpponentRecordID: opponentID,
		PlayerVersion:    playerRow.Version,
		OpponentVersion:  opponentRow.Version,
	}, nil
}

func (r *fakeResultRepository) DeleteFixtureResult(_ context.Context, params repositories.DeleteFixtureResultParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := false
	for _, playerID := range []string{params.PlayerID, params.OpponentID} {
		row, ok := r.results[r.key(params.TournamentID, playerID)]
		if !ok {
			continue
		}
		kept := row.Matches[:0]
		for _, m := range row.Matches {
			if m.FixtureID != nil && *m.FixtureID == params.FixtureID {
				removed = true
				continue
			}
			kept = append(kept, m)
		}
		row.Matches = kept
		row.Version++
	}
	if !removed {
		return repositories.ErrMatchRecordNotFound
	}
	return nil
}

func (r *fakeResultRepository) GetByPlayerAndTournament(_ context.Context, tournamentID, playerID string) (*models.TournamentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.results[r.key(tournamentID, playerID)]
	if !ok {
		return nil, repositories.ErrResultNotFound
	}
	return row, nil
}

func (r *fakeResultRepository) ListByTournament(_ context.Context, tournamentID string) ([]*models.TournamentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.TournamentResult, 0)
	for _, row := range r.results {
		if row.TournamentID == tournamentID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeResultRepository) ListByPlayer(_ context.Context, playerID string) ([]*models.TournamentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.TournamentResult, 0)
	for _, row := range r.results {
		if row.PlayerID == playerID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeResultRepository) ListAll(_ context.Context) ([]*models.TournamentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.TournamentResult, 0, len(r.results))
	for _, row := range r.results {
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeResultRepository) DeleteByPlayer(_ context.Context, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.results {
		if row.PlayerID == playerID {
			delete(r.results, key)
		}
	}
	return nil
}

func (r *fakeResultRepository) DeleteByTournament(_ context.Context, tournamentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.results {
		if row.TournamentID == tournamentID {
			delete(r.results, key)
		}
	}
	return nil
}

// recordingNotifier collects broadcast events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []LiveEvent
	rooms  []string
}

func (n *recordingNotifier) BroadcastToRoom(roomID string, message interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rooms = append(n.rooms, roomID)
	if ev, ok := message.(LiveEvent); ok {
		n.events = append(n.events, ev)
	}
}
