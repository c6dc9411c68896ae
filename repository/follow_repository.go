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

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type FollowRepository interface {
	// Create inserts a new pending edge. A duplicate (follower_id, user_id)
	// pair is a conflict; the unique constraint is the write-time re-check.
	Create(ctx context.Context, follow *models.Follow) error

	GetByID(ctx context.Context, followID uuid.UUID) (*models.Follow, error)
	GetByPair(ctx context.Context, followerID, userID uuid.UUID) (*models.Follow, error)

	SetApproved(ctx context.Context, followID uuid.UUID, approved bool) (*models.Follow, error)

	// DeleteByPair removes the edge for (follower, user); absent is not found.
	DeleteByPair(ctx context.Context, followerID, userID uuid.UUID) error

	// ListFollowers returns edges pointing at userID with the given approval
	// state, newest first.
	ListFollowers(ctx context.Context, userID uuid.UUID, approved bool) ([]models.Follow, error)

	// ListFollowing returns approved edges originating from followerID.
	ListFollowing(ctx context.Context, followerID uuid.UUID) ([]models.Follow, error)

	// HasApprovedFollow reports whether followerID follows userID with an
	// approved edge.
	HasApprovedFollow(ctx context.Context, followerID, userID uuid.UUID) (bool, error)

	// ListFollowerIDs returns the ids of every user with an edge (approved or
	// pending) pointing at userID.
	ListFollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	query := `
		INSERT INTO follows (id, user_id, follower_id, approved, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		follow.ID,
		follow.UserID,
		follow.FollowerID,
		follow.Approved,
		follow.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return apperrors.NewConflictError("follow request already exists for this user")
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}

	return nil
}

func (r *followRepository) GetByID(ctx context.Context, followID uuid.UUID) (*models.Follow, error) {
	query := `
		SELECT id, user_id, follower_id, approved, created_at
		FROM follows
		WHERE id = $1
	`

	var follow models.Follow
	err := r.db.GetContext(ctx, &follow, query, followID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("follow request")
		}
		return nil, fmt.Errorf("failed to get follow: %w", err)
	}

	return &follow, nil
}

func (r *followRepository) GetByPair(ctx context.Context, followerID, userID uuid.UUID) (*models.Follow, error) {
	query := `
		SELECT id, user_id, follower_id, approved, created_at
		FROM follows
		WHERE follower_id = $1 AND user_id = $2
	`

	var follow models.Follow
	err := r.db.GetContext(ctx, &follow, query, followerID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("follow request")
		}
		return nil, fmt.Errorf("failed to get follow by pair: %w", err)
	}

	return &follow, nil
}

func (r *followRepository) SetApproved(ctx context.Context, followID uuid.UUID, approved bool) (*models.Follow, error) {
	query := `
		UPDATE follows
		SET approved = $1
		WHERE id = $2
		RETURNING id, user_id, follower_id, approved, created_at
	`

	var follow models.Follow
	err := r.db.GetContext(ctx, &follow, query, approved, followID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("follow request")
		}
		return nil, fmt.Errorf("failed to update follow approval: %w", err)
	}

	return &follow, nil
}

func (r *followRepository) DeleteByPair(ctx context.Context, followerID, userID uuid.UUID) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("follow request")
	}

	return nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uuid.UUID, approved bool) ([]models.Follow, error) {
	query := `
		SELECT id, user_id, follower_id, approved, created_at
		FROM follows
		WHERE user_id = $1 AND approved = $2
		ORDER BY created_at DESC, id DESC
	`

	follows := []models.Follow{}
	if err := r.db.SelectContext(ctx, &follows, query, userID, approved); err != nil {
		return nil, fmt.Errorf("failed to query followers: %w", err)
	}

	return follows, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID uuid.UUID) ([]models.Follow, error) {
	query := `
		SELECT id, user_id, follower_id, approved, created_at
		FROM follows
		WHERE follower_id = $1 AND approved = TRUE
		ORDER BY created_at DESC, id DESC
	`

	follows := []models.Follow{}
	if err := r.db.SelectContext(ctx, &follows, query, followerID); err != nil {
		return nil, fmt.Errorf("failed to query following: %w", err)
	}

	return follows, nil
}

func (r *followRepository) HasApprovedFollow(ctx context.Context, followerID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM follows
			WHERE follower_id = $1 AND user_id = $2 AND approved = TRUE
		)
	`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, followerID, userID); err != nil {
		return false, fmt.Errorf("failed to check follow approval: %w", err)
	}

	return exists, nil
}

func (r *followRepository) ListFollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT follower_id FROM follows WHERE user_id = $1`

	followerIDs := []uuid.UUID{}
	if err := r.db.SelectContext(ctx, &followerIDs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to query follower ids: %w", err)
	}

	return followerIDs, nil
}
