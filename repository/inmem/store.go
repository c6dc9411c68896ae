// Package inmem provides in-memory implementations of the repository
// interfaces, backed by a single mutex-guarded store. Used by tests and the
// memory storage mode; semantics mirror the Postgres implementations.
package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ideas-service/model"
	apperrors "ideas-service/pkg/errors"
	"ideas-service/repository"
)

// Store holds ideas, follow edges and users behind one lock. Slices keep
// insertion order so equal timestamps sort deterministically.
type Store struct {
	mu      sync.RWMutex
	ideas   []models.Idea
	follows []models.Follow
	users   []models.User
}

func NewStore() *Store {
	return &Store{}
}

// AddUser seeds a user row. The identity service owns users, so there is no
// repository mutation for them.
func (s *Store) AddUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
}

func (s *Store) Ideas() repository.IdeaRepository {
	return &ideaRepository{store: s}
}

func (s *Store) Follows() repository.FollowRepository {
	return &followRepository{store: s}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s}
}

// sortIdeas orders newest first; the stable sort keeps insertion order for
// equal timestamps, matching the (created_on, seq) ordering in Postgres.
func sortIdeas(ideas []models.Idea) {
	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].CreatedOn.After(ideas[j].CreatedOn)
	})
}

func sortFollows(follows []models.Follow) {
	sort.SliceStable(follows, func(i, j int) bool {
		return follows[i].CreatedAt.After(follows[j].CreatedAt)
	})
}

type ideaRepository struct {
	store *Store
}

func (r *ideaRepository) Create(ctx context.Context, idea *models.Idea) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.ideas = append(r.store.ideas, *idea)
	return nil
}

func (r *ideaRepository) GetByID(ctx context.Context, ideaID uuid.UUID) (*models.Idea, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, idea := range r.store.ideas {
		if idea.ID == ideaID {
			found := idea
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFoundError("idea")
}

func (r *ideaRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, visibilities []models.Visibility) ([]models.Idea, error) {
	allowed := map[models.Visibility]bool{}
	for _, v := range visibilities {
		allowed[v] = true
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ideas := []models.Idea{}
	for _, idea := range r.store.ideas {
		if idea.AuthorID != authorID {
			continue
		}
		if len(allowed) > 0 && !allowed[idea.Visibility] {
			continue
		}
		ideas = append(ideas, idea)
	}

	sortIdeas(ideas)
	return ideas, nil
}

func (r *ideaRepository) ListTimeline(ctx context.Context, viewerID uuid.UUID) ([]models.Idea, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	followed := map[uuid.UUID]bool{}
	for _, f := range r.store.follows {
		if f.FollowerID == viewerID && f.Approved {
			followed[f.UserID] = true
		}
	}

	ideas := []models.Idea{}
	for _, idea := range r.store.ideas {
		own := idea.AuthorID == viewerID
		shared := followed[idea.AuthorID] &&
			(idea.Visibility == models.VisibilityPublic || idea.Visibility == models.VisibilityProtected)
		if own || shared {
			ideas = append(ideas, idea)
		}
	}

	sortIdeas(ideas)
	return ideas, nil
}

func (r *ideaRepository) UpdateVisibilityOwned(ctx context.Context, ideaID, authorID uuid.UUID, visibility models.Visibility) (*models.Idea, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.ideas {
		if r.store.ideas[i].ID == ideaID && r.store.ideas[i].AuthorID == authorID {
			r.store.ideas[i].Visibility = visibility
			updated := r.store.ideas[i]
			return &updated, nil
		}
	}
	return nil, apperrors.NewNotFoundError("idea")
}

func (r *ideaRepository) DeleteOwned(ctx context.Context, ideaID, authorID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.ideas {
		if r.store.ideas[i].ID == ideaID && r.store.ideas[i].AuthorID == authorID {
			r.store.ideas = append(r.store.ideas[:i], r.store.ideas[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("idea")
}

type followRepository struct {
	store *Store
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, f := range r.store.follows {
		if f.FollowerID == follow.FollowerID && f.UserID == follow.UserID {
			return apperrors.NewConflictError("follow request already exists for this user")
		}
	}

	r.store.follows = append(r.store.follows, *follow)
	return nil
}

func (r *followRepository) GetByID(ctx context.Context, followID uuid.UUID) (*models.Follow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, f := range r.store.follows {
		if f.ID == followID {
			found := f
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFoundError("follow request")
}

func (r *followRepository) GetByPair(ctx context.Context, followerID, userID uuid.UUID) (*models.Follow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, f := range r.store.follows {
		if f.FollowerID == followerID && f.UserID == userID {
			found := f
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFoundError("follow request")
}

func (r *followRepository) SetApproved(ctx context.Context, followID uuid.UUID, approved bool) (*models.Follow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.follows {
		if r.store.follows[i].ID == followID {
			r.store.follows[i].Approved = approved
			updated := r.store.follows[i]
			return &updated, nil
		}
	}
	return nil, apperrors.NewNotFoundError("follow request")
}

func (r *followRepository) DeleteByPair(ctx context.Context, followerID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.follows {
		if r.store.follows[i].FollowerID == followerID && r.store.follows[i].UserID == userID {
			r.store.follows = append(r.store.follows[:i], r.store.follows[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("follow request")
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uuid.UUID, approved bool) ([]models.Follow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	follows := []models.Follow{}
	for _, f := range r.store.follows {
		if f.UserID == userID && f.Approved == approved {
			follows = append(follows, f)
		}
	}

	sortFollows(follows)
	return follows, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID uuid.UUID) ([]models.Follow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	follows := []models.Follow{}
	for _, f := range r.store.follows {
		if f.FollowerID == followerID && f.Approved {
			follows = append(follows, f)
		}
	}

	sortFollows(follows)
	return follows, nil
}

func (r *followRepository) HasApprovedFollow(ctx context.Context, followerID, userID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, f := range r.store.follows {
		if f.FollowerID == followerID && f.UserID == userID {
			return f.Approved, nil
		}
	}
	return false, nil
}

func (r *followRepository) ListFollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	followerIDs := []uuid.UUID{}
	for _, f := range r.store.follows {
		if f.UserID == userID {
			followerIDs = append(followerIDs, f.FollowerID)
		}
	}
	return followerIDs, nil
}

type userRepository struct {
	store *Store
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.ID == userID {
			found := u
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user")
}

func (r *userRepository) SearchByUsername(ctx context.Context, search string) ([]models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	needle := strings.ToLower(search)
	users := []models.User{}
	for _, u := range r.store.users {
		if strings.Contains(strings.ToLower(u.Username), needle) {
			users = append(users, u)
		}
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}
