package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ideas-service/model"
	apperrors "ideas-service/pkg/errors"
)

// UserRepository reads the user table owned by the identity service.
type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	SearchByUsername(ctx context.Context, search string) ([]models.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, username
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) SearchByUsername(ctx context.Context, search string) ([]models.User, error) {
	query := `
		SELECT id, username
		FROM users
		WHERE username ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY username ASC
	`

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, escapeLike(search)); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// escapeLike neutralizes LIKE metacharacters so the search string matches
// literally, like the in-memory substring search does.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
