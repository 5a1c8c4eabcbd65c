package triage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when the store has no session with the
// requested id.
var ErrSessionNotFound = errors.New("session not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

type postgresRepo struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := `SELECT id, in_scope, case_state, history, created_at, updated_at FROM sessions WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	var s Session
	var caseJSON, historyJSON []byte

	err := row.Scan(
		&s.ID,
		&s.InScope,
		&caseJSON,
		&historyJSON,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	s.Case = NewCaseState()
	if len(caseJSON) > 0 {
		if err := json.Unmarshal(caseJSON, &s.Case); err != nil {
			return nil, fmt.Errorf("failed to unmarshal case state: %w", err)
		}
	}
	if s.Case.AssociatedSymptoms == nil {
		s.Case.AssociatedSymptoms = SymptomSet{}
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &s.History); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}

	return &s, nil
}

func (r *postgresRepo) Save(ctx context.Context, s *Session) error {
	caseJSON, err := json.Marshal(s.Case)
	if err != nil {
		return err
	}
	historyJSON, err := json.Marshal(s.History)
	if err != nil {
		return err
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = time.Now()

	query := `
		INSERT INTO sessions (id, in_scope, case_state, history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			in_scope = $2,
			case_state = $3,
			history = $4,
			updated_at = $6
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.InScope, caseJSON, historyJSON, s.CreatedAt, s.UpdatedAt)
	return err
}

// memoryRepo keeps sessions in process memory; it is the store used when no
// database is configured. Values are cloned on the way in and out so a turn
// in flight never aliases stored state.
type memoryRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewMemoryRepository() Repository {
	return &memoryRepo{sessions: make(map[uuid.UUID]*Session)}
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.clone(), nil
}

func (r *memoryRepo) Save(_ context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.clone()
	return nil
}
