package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
	"filingcontrol/pkg/platform/sentinel"
)

// Unique violation, per the Postgres error code table.
const pgUniqueViolation = "23505"

// PostgresStore persists notification events. The unique index on event_key
// makes dedupe a database guarantee rather than an application check.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO fc_notification_events
			(id, entity_id, obligation_key, form, event_type, due_date, event_key, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(event.ID),
		uuid.UUID(event.EntityID),
		event.ObligationKey,
		event.Form,
		string(event.EventType),
		event.DueDate.Time(),
		event.EventKey,
		string(event.Status),
		event.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert notification event: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, eventID id.EventID) (*Event, error) {
	query := `
		SELECT id, entity_id, obligation_key, form, event_type, due_date, event_key, status, created_at
		FROM fc_notification_events
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(eventID))
	event, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find notification event: %w", err)
	}
	return event, nil
}

func (s *PostgresStore) ListByEntity(ctx context.Context, entityID id.EntityID) ([]*Event, error) {
	query := `
		SELECT id, entity_id, obligation_key, form, event_type, due_date, event_key, status, created_at
		FROM fc_notification_events
		WHERE entity_id = $1
		ORDER BY created_at DESC, event_key
	`
	return s.queryEvents(ctx, query, uuid.UUID(entityID))
}

func (s *PostgresStore) ListPending(ctx context.Context, limit int) ([]*Event, error) {
	query := `
		SELECT id, entity_id, obligation_key, form, event_type, due_date, event_key, status, created_at
		FROM fc_notification_events
		WHERE status = 'PENDING'
		ORDER BY created_at, event_key
		LIMIT $1
	`
	return s.queryEvents(ctx, query, limit)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, eventID id.EventID, from, to Status) error {
	query := `
		UPDATE fc_notification_events
		SET status = $3
		WHERE id = $1 AND status = $2
	`
	res, err := s.db.ExecContext(ctx, query, uuid.UUID(eventID), string(from), string(to))
	if err != nil {
		return fmt.Errorf("update notification event status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update notification event status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notification events: %w", err)
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan notification event: %w", err)
		}
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notification events: %w", err)
	}
	return out, nil
}

func scanEvent(scan func(...any) error) (*Event, error) {
	var event Event
	var rawID, rawEntityID uuid.UUID
	var eventType, status string
	var dueDate time.Time

	if err := scan(&rawID, &rawEntityID, &event.ObligationKey, &event.Form, &eventType, &dueDate, &event.EventKey, &status, &event.CreatedAt); err != nil {
		return nil, err
	}

	event.ID = id.EventID(rawID)
	event.EntityID = id.EntityID(rawEntityID)
	event.EventType = EventType(eventType)
	event.DueDate = engine.DateOf(dueDate)
	event.Status = Status(status)
	return &event, nil
}
