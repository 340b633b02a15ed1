package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

var (
	ErrResultNotFound      = errors.New("tournament result not found")
	ErrMatchRecordNotFound = errors.New("match record not found")

	// ErrResultConflict means the fixture's stored score changed since
	// the writer last observed it. It must never be resolved here; the
	// caller has to reload fresh state and decide.
	ErrResultConflict = errors.New("conflicting result already recorded for this fixture")
)

// UpsertFixtureResultParams carries one fixture outcome: the submitting
// player's record and the opponent's mirrored record, written as a single
// atomic pair. LastObservedScore (and its mirror) is the score the writer
// saw before editing; nil means the writer believes the fixture is
// unscored.
type UpsertFixtureResultParams struct {
	TournamentID string
	FixtureID    string
	PlayerID     string
	OpponentID   string

	PlayerRecord   models.MatchRecord
	OpponentRecord models.MatchRecord

	LastObservedScore         *string
	LastObservedOpponentScore *string
}

type DeleteFixtureResultParams struct {
	TournamentID string
	FixtureID    string
	PlayerID     string
	OpponentID   string
}

// FixtureWriteReceipt reports the committed state of an upsert: the record
// ids actually stored (reused on update) and the new row versions.
type FixtureWriteReceipt struct {
	PlayerRecordID   string `json:"player_record_id"`
	OpponentRecordID string `json:"opponent_record_id"`
	PlayerVersion    int64  `json:"player_version"`
	OpponentVersion  int64  `json:"opponent_version"`
}

// ResultRepository is the result ledger's storage boundary. Upsert and
// delete operate on both mirrored records inside one transaction; the two
// result rows are locked in deterministic order so concurrent writers to
// the same fixture serialize instead of deadlocking.
type ResultRepository interface {
	UpsertFixtureResult(ctx context.Context, params UpsertFixtureResultParams) (*FixtureWriteReceipt, error)
	DeleteFixtureResult(ctx context.Context, params DeleteFixtureResultParams) error

	GetByPlayerAndTournament(ctx context.Context, tournamentID, playerID string) (*models.TournamentResult, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.TournamentResult, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*models.TournamentResult, error)
	ListAll(ctx context.Context) ([]*models.TournamentResult, error)

	DeleteByPlayer(ctx context.Context, playerID string) error
	DeleteByTournament(ctx context.Context, tournamentID string) error
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

// hasRealScore reports whether a score counts as observed state. Empty
// strings and 0:0 placeholders never do.
func hasRealScore(score string) bool {
	s := strings.TrimSpace(score)
	return s != "" && s != "0:0" && s != "0:0 0:0"
}

type resultRow struct {
	id      string
	matches []models.MatchRecord
	version int64
}

func (r *postgresResultRepository) UpsertFixtureResult(ctx context.Context, params UpsertFixtureResultParams) (*FixtureWriteReceipt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin result transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := r.lockPair(ctx, tx, params.TournamentID, params.PlayerID, params.OpponentID)
	if err != nil {
		return nil, err
	}
	playerRow := rows[params.PlayerID]
	opponentRow := rows[params.OpponentID]

	playerRecordID, err := upsertRecord(playerRow, params.FixtureID, params.PlayerRecord, params.LastObservedScore)
	if err != nil {
		return nil, err
	}
	opponentRecordID, err := upsertRecord(opponentRow, params.FixtureID, params.OpponentRecord, params.LastObservedOpponentScore)
	if err != nil {
		return nil, err
	}

	if err := r.writeRow(ctx, tx, params.TournamentID, params.PlayerID, playerRow); err != nil {
		return nil, err
	}
	if err := r.writeRow(ctx, tx, params.TournamentID, params.OpponentID, opponentRow); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result transaction: %w", err)
	}

	return &FixtureWriteReceipt{
		PlayerRecordID:   playerRecordID,
		OpponentRecordID: opponentRecordID,
		PlayerVersion:    playerRow.version + 1,
		OpponentVersion:  opponentRow.version + 1,
	}, nil
}

// upsertRecord replaces the row's record for the fixture in place,
// reusing its id, or appends a new one. Correlation is strictly by
// fixture id: the same two players meeting again under a different
// fixture always produces a separate record.
func upsertRecord(row *resultRow, fixtureID string, record models.MatchRecord, lastObserved *string) (string, error) {
	idx := -1
	for i := range row.matches {
		if row.matches[i].FixtureID != nil && *row.matches[i].FixtureID == fixtureID {
			idx = i
			break
		}
	}

	fixture := fixtureID
	record.FixtureID = &fixture
	if record.PlayedAt.IsZero() {
		record.PlayedAt = time.Now().UTC()
	}

	if idx < 0 {
		record.ID = uuid.NewString()
		row.matches = append(row.matches, record)
		return record.ID, nil
	}

	existing := row.matches[idx]
	if hasRealScore(existing.Score) && existing.Score != record.Score {
		if lastObserved == nil || *lastObserved != existing.Score {
			return "", fmt.Errorf("%w: fixture %s holds %q", ErrResultConflict, fixtureID, existing.Score)
		}
	}

	record.ID = existing.ID
	row.matches[idx] = record
	return record.ID, nil
}

func (r *postgresResultRepository) DeleteFixtureResult(ctx context.Context, params DeleteFixtureResultParams) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin result transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := r.lockPair(ctx, tx, params.TournamentID, params.PlayerID, params.OpponentID)
	if err != nil {
		return err
	}

	removed := false
	for _, playerID := range []string{params.PlayerID, params.OpponentID} {
		row := rows[playerID]
		kept := row.matches[:0]
		for _, m := range row.matches {
			if m.FixtureID != nil && *m.FixtureID == params.FixtureID {
				removed = true
				continue
			}
			kept = append(kept, m)
		}
		row.matches = kept
		if err := r.writeRow(ctx, tx, params.TournamentID, playerID, row); err != nil {
			return err
		}
	}
	if !removed {
		return fmt.Errorf("%w: fixture %s", ErrMatchRecordNotFound, params.FixtureID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result transaction: %w", err)
	}
	return nil
}

// lockPair ensures both players' result rows exist, then locks them with
// SELECT ... FOR UPDATE in lexicographic player-id order.
func (r *postgresResultRepository) lockPair(ctx context.Context, tx *sql.Tx, tournamentID, playerID, opponentID string) (map[string]*resultRow, error) {
	ids := []string{playerID, opponentID}
	sort.Strings(ids)

	rows := make(map[string]*resultRow, 2)
	for _, id := range ids {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO results (id, tournament_id, player_id, matches, version)
			VALUES ($1, $2, $3, '[]', 0)
			ON CONFLICT (tournament_id, player_id) DO NOTHING`,
			uuid.NewString(), tournamentID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure result row for player %s: %w", id, err)
		}

		row := &resultRow{}
		var raw []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, matches, version FROM results
			WHERE tournament_id = $1 AND player_id = $2
			FOR UPDATE`,
			tournamentID, id).Scan(&row.id, &raw, &row.version)
		if err != nil {
			return nil, fmt.Errorf("failed to lock result row for player %s: %w", id, err)
		}
		if err := json.Unmarshal(raw, &row.matches); err != nil {
			return nil, fmt.Errorf("failed to decode matches for player %s: %w", id, err)
		}
		rows[id] = row
	}
	return rows, nil
}

func (r *postgresResultRepository) writeRow(ctx context.Context, tx *sql.Tx, tournamentID, playerID string, row *resultRow) error {
	raw, err := json.Marshal(row.matches)
	if err != nil {
		return fmt.Errorf("failed to encode matches for player %s: %w", playerID, err)
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE results
		SET matches = $1, version = version + 1, updated_at = now()
		WHERE tournament_id = $2 AND player_id = $3`,
		raw, tournamentID, playerID)
	if err != nil {
		return fmt.Errorf("failed to write result row for player %s: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) GetByPlayerAndTournament(ctx context.Context, tournamentID, playerID string) (*models.TournamentResult, error) {
	query := `
		SELECT id, tournament_id, player_id, matches, version FROM results
		WHERE tournament_id = $1 AND player_id = $2`

	result, err := scanResult(r.db.QueryRowContext(ctx, query, tournamentID, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to load result for player %s in tournament %s: %w", playerID, tournamentID, err)
	}
	return result, nil
}

func (r *postgresResultRepository) ListByTournament(ctx context.Context, tournamentID string) ([]*models.TournamentResult, error) {
	return r.list(ctx, `
		SELECT id, tournament_id, player_id, matches, version FROM results
		WHERE tournament_id = $1 ORDER BY player_id`, tournamentID)
}

func (r *postgresResultRepository) ListByPlayer(ctx context.Context, playerID string) ([]*models.TournamentResult, error) {
	return r.list(ctx, `
		SELECT id, tournament_id, player_id, matches, version FROM results
		WHERE player_id = $1 ORDER BY tournament_id`, playerID)
}

func (r *postgresResultRepository) ListAll(ctx context.Context) ([]*models.TournamentResult, error) {
	return r.list(ctx, `
		SELECT id, tournament_id, player_id, matches, version FROM results
		ORDER BY tournament_id, player_id`)
}

func (r *postgresResultRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.TournamentResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := make([]*models.TournamentResult, 0)
	for rows.Next() {
		result, scanErr := scanResult(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", scanErr)
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during result rows iteration: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(s rowScanner) (*models.TournamentResult, error) {
	result := &models.TournamentResult{}
	var raw []byte
	if err := s.Scan(&result.ID, &result.TournamentID, &result.PlayerID, &raw, &result.Version); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &result.Matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	return result, nil
}

func (r *postgresResultRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete results for player %s: %w", playerID, err)
	}
	return nil
}

func (r *postgresResultRepository) DeleteByTournament(ctx context.Context, tournamentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete results for tournament %s: %w", tournamentID, err)
	}
	return nil
}
