package triage

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"symptom-checker/internal/embedding"
	"symptom-checker/internal/knowledge"
)

// embedTimeout bounds the only suspending call in a turn; on expiry the
// turn degrades to the no-causes branch instead of failing.
const embedTimeout = 10 * time.Second

var (
	// ErrInvalidInput is returned for an empty or missing message; the
	// session is left untouched.
	ErrInvalidInput = errors.New("message is required")

	// ErrInternal signals that the turn was answered with the generic
	// apology after an unexpected failure.
	ErrInternal = errors.New("internal error")
)

// TurnResult is what one handled turn hands back to the transport.
type TurnResult struct {
	SessionID uuid.UUID
	Response  string
}

// Service is the per-turn dialogue orchestrator.
type Service interface {
	CreateSession(ctx context.Context) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)

	// HandleTurn runs one full turn for the given session. A nil or
	// unknown session id starts a fresh session; the id in the result is
	// authoritative for the rest of the conversation.
	HandleTurn(ctx context.Context, sessionID uuid.UUID, message string) (*TurnResult, error)
}

type service struct {
	repo   Repository
	kb     *knowledge.Base
	gate   *ScopeGate
	ranker *CauseRanker
	log    *zap.Logger

	// Per-session locks serialize turns within a conversation while
	// letting distinct sessions proceed concurrently.
	lockMu sync.Mutex
	locks  map[uuid.UUID]*sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option tweaks service construction.
type Option func(*service)

// WithRandSource fixes the source behind greeting selection so tests are
// deterministic.
func WithRandSource(src rand.Source) Option {
	return func(s *service) { s.rng = rand.New(src) }
}

func NewService(repo Repository, provider embedding.Provider, kb *knowledge.Base, kw *knowledge.KeywordIndex, log *zap.Logger, opts ...Option) Service {
	s := &service{
		repo:   repo,
		kb:     kb,
		gate:   NewScopeGate(kw),
		ranker: NewCauseRanker(provider),
		log:    log,
		locks:  make(map[uuid.UUID]*sync.Mutex),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateSession(ctx context.Context) (*Session, error) {
	sess := newSession()
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) HandleTurn(ctx context.Context, sessionID uuid.UUID, message string) (res *TurnResult, err error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrInvalidInput
	}

	sess, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lock := s.sessionLock(sess.ID)
	lock.Lock()
	defer lock.Unlock()

	// Anything unexpected inside a turn becomes an apologetic reply; the
	// session is not saved, so no partial merge can leak out.
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("turn panicked",
				zap.String("session_id", sess.ID.String()),
				zap.Any("panic", r))
			res = &TurnResult{SessionID: sess.ID, Response: apologyReply}
			err = ErrInternal
		}
	}()

	reply := s.reply(ctx, sess, message)

	sess.History = append(sess.History, Turn{User: message, Bot: reply, Timestamp: time.Now()})
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &TurnResult{SessionID: sess.ID, Response: reply}, nil
}

// reply runs the turn state machine: greeting check, scope gate, then
// either a direct-knowledge shortcut or full case analysis.
func (s *service) reply(ctx context.Context, sess *Session, message string) string {
	if isGreeting(message) {
		return s.pickGreeting()
	}

	lower := strings.ToLower(message)
	if !sess.InScope && s.gate.Triggered(lower) {
		sess.InScope = true
	}
	if !s.gate.InScope(lower, sess.InScope) {
		return refusalReply
	}
	// A broad-vocabulary hit establishes the session too.
	sess.InScope = true

	if text, ok := directLookup(lower); ok {
		return text
	}
	return s.analyze(ctx, sess, lower)
}

func (s *service) analyze(ctx context.Context, sess *Session, lower string) string {
	sess.Case.Merge(ExtractFacts(lower))
	summary := sess.Case.Summary()
	flags := DetectRedFlags(sess.Case, lower, s.kb.EmergencySymptoms)

	rankCtx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()
	ranked, err := s.ranker.Rank(rankCtx, summary, s.kb.Causes)
	if err != nil {
		// Recoverable: answer with the need-more-detail branch.
		s.log.Warn("cause ranking unavailable",
			zap.String("session_id", sess.ID.String()),
			zap.Error(err))
		ranked = nil
	}

	return ComposeAnalysis(sess.Case, summary, ranked, flags, s.kb.HomeRemedies)
}

func (s *service) loadOrCreate(ctx context.Context, id uuid.UUID) (*Session, error) {
	if id != uuid.Nil {
		sess, err := s.repo.GetByID(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
	}
	sess := newSession()
	if id != uuid.Nil {
		// Keep the caller's id so retries after a store wipe still converse.
		sess.ID = id
	}
	return sess, nil
}

func (s *service) sessionLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	if l, ok := s.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[id] = l
	return l
}

func (s *service) pickGreeting() string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return greetingReplies[s.rng.Intn(len(greetingReplies))]
}
