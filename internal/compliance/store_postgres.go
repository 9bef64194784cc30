package compliance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
	"filingcontrol/pkg/platform/sentinel"
)

// PostgresStateStore persists compliance state rows keyed by
// (entity_id, obligation_key). Completed rows are protected at the SQL level:
// the upsert's conflict branch carries a status guard so reconciliation can
// never reopen a filing the user marked done.
type PostgresStateStore struct {
	db *sql.DB
}

func NewPostgresStateStore(db *sql.DB) *PostgresStateStore {
	return &PostgresStateStore{db: db}
}

func (s *PostgresStateStore) Upsert(ctx context.Context, state *State) (bool, error) {
	query := `
		INSERT INTO fc_compliance_state
			(entity_id, obligation_key, form, due_date, days_remaining, status, engine_version, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (entity_id, obligation_key) DO UPDATE SET
			form = EXCLUDED.form,
			due_date = EXCLUDED.due_date,
			days_remaining = EXCLUDED.days_remaining,
			status = EXCLUDED.status,
			engine_version = EXCLUDED.engine_version,
			computed_at = EXCLUDED.computed_at
		WHERE fc_compliance_state.status <> 'completed'
		RETURNING status
	`
	var written string
	err := s.db.QueryRowContext(ctx, query,
		uuid.UUID(state.EntityID),
		state.ObligationKey,
		state.Form,
		state.DueDate.Time(),
		state.DaysRemaining,
		string(state.Status),
		state.EngineVersion,
		state.ComputedAt,
	).Scan(&written)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict branch suppressed by the completed guard.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("upsert compliance state: %w", err)
	}
	return true, nil
}

func (s *PostgresStateStore) Get(ctx context.Context, entityID id.EntityID, obligationKey string) (*State, error) {
	query := `
		SELECT entity_id, obligation_key, form, due_date, days_remaining, status, engine_version, computed_at
		FROM fc_compliance_state
		WHERE entity_id = $1 AND obligation_key = $2
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(entityID), obligationKey)
	state, err := scanState(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get compliance state: %w", err)
	}
	return state, nil
}

func (s *PostgresStateStore) ListByEntity(ctx context.Context, entityID id.EntityID) ([]*State, error) {
	query := `
		SELECT entity_id, obligation_key, form, due_date, days_remaining, status, engine_version, computed_at
		FROM fc_compliance_state
		WHERE entity_id = $1
		ORDER BY
			CASE status
				WHEN 'overdue' THEN 0
				WHEN 'due_soon' THEN 1
				WHEN 'upcoming' THEN 2
				ELSE 3
			END,
			due_date,
			obligation_key
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(entityID))
	if err != nil {
		return nil, fmt.Errorf("list compliance state: %w", err)
	}
	defer rows.Close()

	var out []*State
	for rows.Next() {
		state, err := scanState(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan compliance state: %w", err)
		}
		out = append(out, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list compliance state: %w", err)
	}
	return out, nil
}

func (s *PostgresStateStore) MarkCompleted(ctx context.Context, entityID id.EntityID, obligationKey string) error {
	query := `
		UPDATE fc_compliance_state
		SET status = 'completed'
		WHERE entity_id = $1 AND obligation_key = $2
	`
	res, err := s.db.ExecContext(ctx, query, uuid.UUID(entityID), obligationKey)
	if err != nil {
		return fmt.Errorf("mark compliance state completed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark compliance state completed: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanState(scan func(...any) error) (*State, error) {
	var state State
	var rawEntityID uuid.UUID
	var dueDate time.Time
	var status string

	if err := scan(&rawEntityID, &state.ObligationKey, &state.Form, &dueDate, &state.DaysRemaining, &status, &state.EngineVersion, &state.ComputedAt); err != nil {
		return nil, err
	}

	state.EntityID = id.EntityID(rawEntityID)
	state.DueDate = engine.DateOf(dueDate)
	state.Status = Status(status)
	return &state, nil
}
