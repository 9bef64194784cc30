package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
	"filingcontrol/pkg/platform/sentinel"
)

// Postgres-backed stores. Result JSON is decoded defensively at this
// boundary: a snapshot that no longer matches its engine-versioned schema is
// reported as a store error, never a panic.

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, created_at
		FROM fc_users
		WHERE lower(email) = lower($1)
	`
	var user User
	var rawID uuid.UUID
	err := s.db.QueryRowContext(ctx, query, email).Scan(&rawID, &user.Email, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	user.ID = id.UserID(rawID)
	return &user, nil
}

func (s *PostgresUserStore) Save(ctx context.Context, user *User) error {
	query := `
		INSERT INTO fc_users (id, email, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, uuid.UUID(user.ID), user.Email, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

type PostgresEntityStore struct {
	db *sql.DB
}

func NewPostgresEntityStore(db *sql.DB) *PostgresEntityStore {
	return &PostgresEntityStore{db: db}
}

func (s *PostgresEntityStore) Save(ctx context.Context, entity *Entity) error {
	query := `
		INSERT INTO fc_entities (id, user_id, name, entity_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(entity.ID),
		uuid.UUID(entity.UserID),
		entity.Name,
		entity.EntityType,
		entity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert entity: %w", err)
	}
	return nil
}

func (s *PostgresEntityStore) FindByID(ctx context.Context, entityID id.EntityID) (*Entity, error) {
	query := `
		SELECT id, user_id, name, entity_type, created_at
		FROM fc_entities
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(entityID))
	entity, err := scanEntity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find entity: %w", err)
	}
	return entity, nil
}

func (s *PostgresEntityStore) ListByUser(ctx context.Context, userID id.UserID) ([]*Entity, error) {
	query := `
		SELECT id, user_id, name, entity_type, created_at
		FROM fc_entities
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return s.queryEntities(ctx, query, uuid.UUID(userID))
}

func (s *PostgresEntityStore) ListAll(ctx context.Context) ([]*Entity, error) {
	query := `
		SELECT id, user_id, name, entity_type, created_at
		FROM fc_entities
		ORDER BY created_at
	`
	return s.queryEntities(ctx, query)
}

func (s *PostgresEntityStore) queryEntities(ctx context.Context, query string, args ...any) ([]*Entity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var out []*Entity
	for rows.Next() {
		entity, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return out, nil
}

func scanEntity(scan func(...any) error) (*Entity, error) {
	var entity Entity
	var rawID, rawUserID uuid.UUID
	if err := scan(&rawID, &rawUserID, &entity.Name, &entity.EntityType, &entity.CreatedAt); err != nil {
		return nil, err
	}
	entity.ID = id.EntityID(rawID)
	entity.UserID = id.UserID(rawUserID)
	return &entity, nil
}

type PostgresAssessmentStore struct {
	db *sql.DB
}

func NewPostgresAssessmentStore(db *sql.DB) *PostgresAssessmentStore {
	return &PostgresAssessmentStore{db: db}
}

func (s *PostgresAssessmentStore) Save(ctx context.Context, a *Assessment) error {
	resultJSON, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("marshal assessment result: %w", err)
	}

	query := `
		INSERT INTO fc_assessments (id, entity_id, user_id, engine_version, risk_score, risk_level, result_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(a.ID),
		uuid.UUID(a.EntityID),
		uuid.UUID(a.UserID),
		a.EngineVersion,
		a.RiskScore,
		string(a.RiskLevel),
		resultJSON,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *PostgresAssessmentStore) ListByUser(ctx context.Context, userID id.UserID) ([]*Assessment, error) {
	query := `
		SELECT id, entity_id, user_id, engine_version, risk_score, risk_level, result_json, created_at
		FROM fc_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return out, nil
}

func (s *PostgresAssessmentStore) LatestByUser(ctx context.Context, userID id.UserID) (*Assessment, error) {
	query := `
		SELECT id, entity_id, user_id, engine_version, risk_score, risk_level, result_json, created_at
		FROM fc_assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(userID))
	a, err := scanAssessment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func scanAssessment(scan func(...any) error) (*Assessment, error) {
	var a Assessment
	var rawID, rawEntityID, rawUserID uuid.UUID
	var riskLevel string
	var resultJSON []byte

	if err := scan(&rawID, &rawEntityID, &rawUserID, &a.EngineVersion, &a.RiskScore, &riskLevel, &resultJSON, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan assessment: %w", err)
	}

	// Defensive decode against the engine-versioned schema. A corrupt or
	// incompatible snapshot is a store error, not a crash.
	var result engine.ComplianceResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("decode result_json for assessment %s (engine %s): %w", rawID, a.EngineVersion, err)
	}

	a.ID = id.AssessmentID(rawID)
	a.EntityID = id.EntityID(rawEntityID)
	a.UserID = id.UserID(rawUserID)
	a.RiskLevel = engine.RiskLevel(riskLevel)
	a.Result = result
	return &a, nil
}
