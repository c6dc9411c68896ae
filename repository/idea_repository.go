package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ideas-service/model"
	apperrors "ideas-service/pkg/errors"
)

type IdeaRepository interface {
	Create(ctx context.Context, idea *models.Idea) error
	GetByID(ctx context.Context, ideaID uuid.UUID) (*models.Idea, error)

	// ListByAuthor returns the author's ideas restricted to the given
	// visibility set. An empty set means no restriction (the author's own
	// view). Ordered newest first; ideas sharing a created_on keep their
	// insertion order.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, visibilities []models.Visibility) ([]models.Idea, error)

	// ListTimeline returns the viewer's own ideas plus PUBLIC and PROTECTED
	// ideas from authors the viewer follows with an approved edge, in one
	// deduplicated scan, with the same ordering as ListByAuthor.
	ListTimeline(ctx context.Context, viewerID uuid.UUID) ([]models.Idea, error)

	// UpdateVisibilityOwned updates visibility with the lookup scoped to the
	// author, so a miss on either id or ownership reads as not found.
	UpdateVisibilityOwned(ctx context.Context, ideaID, authorID uuid.UUID, visibility models.Visibility) (*models.Idea, error)

	// DeleteOwned removes an idea with the same author-scoped lookup.
	DeleteOwned(ctx context.Context, ideaID, authorID uuid.UUID) error
}

type ideaRepository struct {
	db *sqlx.DB
}

func NewIdeaRepository(db *sqlx.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(ctx context.Context, idea *models.Idea) error {
	query := `
		INSERT INTO ideas (id, author_id, text, visibility, created_on)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		idea.ID,
		idea.AuthorID,
		idea.Text,
		idea.Visibility,
		idea.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}
	return nil
}

func (r *ideaRepository) GetByID(ctx context.Context, ideaID uuid.UUID) (*models.Idea, error) {
	query := `
		SELECT id, author_id, text, visibility, created_on
		FROM ideas
		WHERE id = $1
	`

	var idea models.Idea
	err := r.db.GetContext(ctx, &idea, query, ideaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("idea")
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}

	return &idea, nil
}

func (r *ideaRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, visibilities []models.Visibility) ([]models.Idea, error) {
	query := `
		SELECT id, author_id, text, visibility, created_on
		FROM ideas
		WHERE author_id = $1
	`
	args := []interface{}{authorID}

	if len(visibilities) > 0 {
		levels := make([]string, len(visibilities))
		for i, v := range visibilities {
			levels[i] = string(v)
		}
		query += " AND visibility = ANY($2)"
		args = append(args, pq.Array(levels))
	}

	// seq is assigned on insert, so the tiebreak is insertion order.
	query += " ORDER BY created_on DESC, seq ASC"

	ideas := []models.Idea{}
	if err := r.db.SelectContext(ctx, &ideas, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query author ideas: %w", err)
	}

	return ideas, nil
}

func (r *ideaRepository) ListTimeline(ctx context.Context, viewerID uuid.UUID) ([]models.Idea, error) {
	query := `
		SELECT i.id, i.author_id, i.text, i.visibility, i.created_on
		FROM ideas i
		WHERE i.author_id = $1
		   OR (i.visibility IN ('PUBLIC', 'PROTECTED')
		       AND i.author_id IN (
		           SELECT f.user_id
		           FROM follows f
		           WHERE f.follower_id = $1 AND f.approved = TRUE
		       ))
		ORDER BY i.created_on DESC, i.seq ASC
	`

	ideas := []models.Idea{}
	if err := r.db.SelectContext(ctx, &ideas, query, viewerID); err != nil {
		return nil, fmt.Errorf("failed to query timeline: %w", err)
	}

	return ideas, nil
}

func (r *ideaRepository) UpdateVisibilityOwned(ctx context.Context, ideaID, authorID uuid.UUID, visibility models.Visibility) (*models.Idea, error) {
	query := `
		UPDATE ideas
		SET visibility = $1
		WHERE id = $2 AND author_id = $3
		RETURNING id, author_id, text, visibility, created_on
	`

	var idea models.Idea
	err := r.db.GetContext(ctx, &idea, query, visibility, ideaID, authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("idea")
		}
		return nil, fmt.Errorf("failed to update idea visibility: %w", err)
	}

	return &idea, nil
}

func (r *ideaRepository) DeleteOwned(ctx context.Context, ideaID, authorID uuid.UUID) error {
	query := `DELETE FROM ideas WHERE id = $1 AND author_id = $2`

	result, err := r.db.ExecContext(ctx, query, ideaID, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("idea")
	}

	return nil
}
