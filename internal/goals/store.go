package goals

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"goalbot/core/logger"
)

// Store is the persistence contract for goals. Implementations must keep
// created goals immutable except for the single completion transition.
type Store interface {
	// Create inserts a new in-progress goal and returns it with its assigned id.
	Create(ctx context.Context, title, chatID, createdBy string) (Goal, error)
	// ByID fetches a goal by primary key regardless of chat. Callers are
	// responsible for chat-scope checks.
	ByID(ctx context.Context, id int64) (Goal, error)
	// ByChat returns every goal for a chat, newest first.
	ByChat(ctx context.Context, chatID string) ([]Goal, error)
	// ActiveByChat returns in-progress goals for a chat, newest first.
	ActiveByChat(ctx context.Context, chatID string) ([]Goal, error)
	// Complete atomically transitions an in-progress goal of the given chat to
	// completed. ErrNotFound means no row matched: unknown id, wrong chat, or
	// a concurrent completion won.
	Complete(ctx context.Context, id int64, chatID, completedBy string) (Goal, error)
}

type sqlStore struct {
	db *sqlx.DB
}

// NewStore returns a Store backed by PostgreSQL.
func NewStore(db *sqlx.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) Create(ctx context.Context, title, chatID, createdBy string) (Goal, error) {
	const query = `
		INSERT INTO goals (title, chat_id, created_by)
		VALUES ($1, $2, $3)
		RETURNING *`

	start := time.Now()
	var g Goal
	if err := s.db.GetContext(ctx, &g, query, title, chatID, createdBy); err != nil {
		s.logError(ctx, "goal.create", err)
		return Goal{}, err
	}
	logger.SVCGoals.LogAttrs(ctx, slog.LevelDebug, "goal created",
		slog.String("event", "goal.create"),
		slog.Int64("goal_id", g.ID),
		slog.Duration("duration", logger.Took(start)),
	)
	return g, nil
}

func (s *sqlStore) ByID(ctx context.Context, id int64) (Goal, error) {
	const query = `SELECT * FROM goals WHERE id = $1`

	var g Goal
	err := s.db.GetContext(ctx, &g, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		s.logError(ctx, "goal.by_id", err)
		return Goal{}, err
	}
	return g, nil
}

func (s *sqlStore) ByChat(ctx context.Context, chatID string) ([]Goal, error) {
	const query = `
		SELECT * FROM goals
		WHERE chat_id = $1
		ORDER BY created_at DESC, id DESC`

	var out []Goal
	if err := s.db.SelectContext(ctx, &out, query, chatID); err != nil {
		s.logError(ctx, "goal.by_chat", err)
		return nil, err
	}
	return out, nil
}

func (s *sqlStore) ActiveByChat(ctx context.Context, chatID string) ([]Goal, error) {
	const query = `
		SELECT * FROM goals
		WHERE chat_id = $1 AND status = $2
		ORDER BY created_at DESC, id DESC`

	var out []Goal
	if err := s.db.SelectContext(ctx, &out, query, chatID, StatusInProgress); err != nil {
		s.logError(ctx, "goal.active_by_chat", err)
		return nil, err
	}
	return out, nil
}

func (s *sqlStore) Complete(ctx context.Context, id int64, chatID, completedBy string) (Goal, error) {
	// The chat and status predicates make the transition atomic: concurrent
	// /complete calls for the same id resolve here, not in the handler.
	const query = `
		UPDATE goals
		SET status = $1, completed_at = now(), completed_by = $2
		WHERE id = $3 AND chat_id = $4 AND status = $5
		RETURNING *`

	start := time.Now()
	var g Goal
	err := s.db.GetContext(ctx, &g, query, StatusCompleted, completedBy, id, chatID, StatusInProgress)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		s.logError(ctx, "goal.complete", err)
		return Goal{}, err
	}
	logger.SVCGoals.LogAttrs(ctx, slog.LevelDebug, "goal completed",
		slog.String("event", "goal.complete"),
		slog.Int64("goal_id", g.ID),
		slog.Duration("duration", logger.Took(start)),
	)
	return g, nil
}

func (s *sqlStore) logError(ctx context.Context, op string, err error) {
	logger.SVCGoals.LogAttrs(ctx, slog.LevelError, "store operation failed",
		slog.String("event", op),
		slog.String("status", "fail"),
		slog.String("err", err.Error()),
	)
}
