package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
)

const uniqueViolation = "23505"

const runColumns = `id, account, contact, journey, status, time_started, time_ended, trigger_event, results, version`

type rowScanner interface {
	Scan(dest ...any) error
}

// RunRepository handles journey run database operations.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewRunRepository creates a new journey run repository.
func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger, now: time.Now}
}

// Create inserts a new journey run.
func (rr *RunRepository) Create(ctx context.Context, run *models.JourneyRun) (*models.JourneyRun, error) {
	created := persistence.InitRun(run, rr.now())

	triggerJSON, err := json.Marshal(created.TriggerEvent)
	if err != nil {
		return nil, persistence.NewRunError("Create", created.ID, fmt.Errorf("failed to marshal trigger event: %w", err))
	}

	resultsJSON, err := json.Marshal(created.Results)
	if err != nil {
		return nil, persistence.NewRunError("Create", created.ID, fmt.Errorf("failed to marshal results: %w", err))
	}

	query := `INSERT INTO journey_runs (` + runColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = rr.db.ExecContext(ctx, query,
		created.ID,
		created.Account,
		created.Contact,
		created.Journey,
		created.Status,
		created.TimeStarted,
		created.TimeEnded,
		triggerJSON,
		resultsJSON,
		created.Version,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, persistence.NewRunError("Create", created.ID, persistence.ErrRunAlreadyExists)
		}

		return nil, persistence.NewRunError("Create", created.ID, fmt.Errorf("failed to insert journey run: %w", err))
	}

	return created, nil
}

// Get retrieves a journey run by ID.
func (rr *RunRepository) Get(ctx context.Context, id string) (*models.JourneyRun, error) {
	row := rr.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM journey_runs WHERE id = $1`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewRunError("Get", id, persistence.ErrRunNotFound)
		}

		return nil, persistence.NewRunError("Get", id, err)
	}

	return run, nil
}

// Update merges the given fields into the stored run inside a transaction
// holding a row lock, so the version check and the write are atomic.
func (rr *RunRepository) Update(ctx context.Context, id string, update models.RunUpdate) (*models.JourneyRun, error) {
	tx, err := rr.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistence.NewRunError("Update", id, fmt.Errorf("failed to begin transaction: %w", err))
	}

	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx, `SELECT `+runColumns+` FROM journey_runs WHERE id = $1 FOR UPDATE`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewRunError("Update", id, persistence.ErrRunNotFound)
		}

		return nil, persistence.NewRunError("Update", id, err)
	}

	err = persistence.CheckVersion(update.ExpectedVersion, run.Version)
	if err != nil {
		return nil, persistence.NewRunError("Update", id, err)
	}

	update.Apply(run)

	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return nil, persistence.NewRunError("Update", id, fmt.Errorf("failed to marshal results: %w", err))
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE journey_runs
		SET status = $2, time_ended = $3, results = $4, version = $5
		WHERE id = $1
	`, id, run.Status, run.TimeEnded, resultsJSON, run.Version)
	if err != nil {
		return nil, persistence.NewRunError("Update", id, fmt.Errorf("failed to update journey run: %w", err))
	}

	err = tx.Commit()
	if err != nil {
		return nil, persistence.NewRunError("Update", id, fmt.Errorf("failed to commit journey run update: %w", err))
	}

	return run, nil
}

// ListByJourney retrieves the runs of a journey, newest first.
func (rr *RunRepository) ListByJourney(ctx context.Context, journeyID string) ([]*models.JourneyRun, error) {
	rows, err := rr.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM journey_runs WHERE journey = $1 ORDER BY time_started DESC`, journeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journey runs: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			rr.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	runs := make([]*models.JourneyRun, 0)

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journey runs: %w", err)
	}

	return runs, nil
}

func scanRun(row rowScanner) (*models.JourneyRun, error) {
	var (
		run         models.JourneyRun
		timeEnded   sql.NullInt64
		triggerJSON []byte
		resultsJSON []byte
	)

	err := row.Scan(
		&run.ID,
		&run.Account,
		&run.Contact,
		&run.Journey,
		&run.Status,
		&run.TimeStarted,
		&timeEnded,
		&triggerJSON,
		&resultsJSON,
		&run.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to scan journey run: %w", err)
	}

	if timeEnded.Valid {
		run.TimeEnded = &timeEnded.Int64
	}

	err = json.Unmarshal(triggerJSON, &run.TriggerEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger event: %w", err)
	}

	err = json.Unmarshal(resultsJSON, &run.Results)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}

	return &run, nil
}
