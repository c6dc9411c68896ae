package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideas-service/events"
	"ideas-service/model"
	apperrors "ideas-service/pkg/errors"
	"ideas-service/publisher"
	"ideas-service/repository"
)

// MutationService implements the write operations: idea lifecycle and the
// follow state machine. Ownership is enforced with author-scoped lookups,
// uniqueness re-checks happen at write time in the repositories, and every
// mutation that can change a timeline invalidates the affected cached
// timelines before returning.
type MutationService struct {
	ideas     repository.IdeaRepository
	follows   repository.FollowRepository
	users     repository.UserRepository
	timelines TimelineCache
	events    *publisher.EventPublisher
	logger    *zap.Logger
}

func NewMutationService(
	ideas repository.IdeaRepository,
	follows repository.FollowRepository,
	users repository.UserRepository,
	timelines TimelineCache,
	events *publisher.EventPublisher,
	logger *zap.Logger,
) *MutationService {
	return &MutationService{
		ideas:     ideas,
		follows:   follows,
		users:     users,
		timelines: timelines,
		events:    events,
		logger:    logger,
	}
}

// CreateIdea validates and stores a new idea for the author. An empty
// visibility defaults to PRIVATE.
func (s *MutationService) CreateIdea(ctx context.Context, authorID uuid.UUID, text string, visibility models.Visibility) (*models.Idea, error) {
	if utf8.RuneCountInString(text) > models.MaxIdeaTextLength {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("idea text exceeds %d characters", models.MaxIdeaTextLength))
	}

	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid visibility %q", visibility))
	}

	idea := &models.Idea{
		ID:         uuid.New(),
		AuthorID:   authorID,
		Text:       text,
		Visibility: visibility,
		CreatedOn:  time.Now().UTC(),
	}

	if err := s.ideas.Create(ctx, idea); err != nil {
		return nil, err
	}

	s.invalidateAuthorTimelines(ctx, authorID)

	s.events.PublishIdeaCreated(events.IdeaCreatedEvent{
		IdeaID:     idea.ID,
		AuthorID:   idea.AuthorID,
		Visibility: string(idea.Visibility),
		CreatedOn:  idea.CreatedOn,
	})

	return idea, nil
}

// ChangeIdeaVisibility updates the visibility of an idea the actor authored.
// The lookup is scoped to the actor, so an idea that exists but belongs to
// someone else reads as not found.
func (s *MutationService) ChangeIdeaVisibility(ctx context.Context, actorID, ideaID uuid.UUID, visibility models.Visibility) (*models.Idea, error) {
	if !visibility.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid visibility %q", visibility))
	}

	idea, err := s.ideas.UpdateVisibilityOwned(ctx, ideaID, actorID, visibility)
	if err != nil {
		return nil, err
	}

	s.invalidateAuthorTimelines(ctx, actorID)

	return idea, nil
}

// DeleteIdea permanently removes an idea the actor authored.
func (s *MutationService) DeleteIdea(ctx context.Context, actorID, ideaID uuid.UUID) error {
	if err := s.ideas.DeleteOwned(ctx, ideaID, actorID); err != nil {
		return err
	}

	s.invalidateAuthorTimelines(ctx, actorID)

	return nil
}

// FollowUser creates a pending follow edge from the follower to the target
// user. Any existing edge for the pair, approved or not, is a conflict.
func (s *MutationService) FollowUser(ctx context.Context, followerID, targetUserID uuid.UUID) (*models.Follow, error) {
	if followerID == targetUserID {
		return nil, apperrors.NewValidationError("users cannot follow themselves")
	}

	if _, err := s.users.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	follow := &models.Follow{
		ID:         uuid.New(),
		UserID:     targetUserID,
		FollowerID: followerID,
		Approved:   false,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.follows.Create(ctx, follow); err != nil {
		return nil, err
	}

	s.events.PublishFollowRequested(events.FollowRequestedEvent{
		FollowID:   follow.ID,
		UserID:     follow.UserID,
		FollowerID: follow.FollowerID,
		CreatedAt:  follow.CreatedAt,
	})

	return follow, nil
}

// ApproveFollower sets the approval state of a follow request. Only the
// followed user may decide it.
func (s *MutationService) ApproveFollower(ctx context.Context, actorID, followID uuid.UUID, approved bool) (*models.Follow, error) {
	follow, err := s.follows.GetByID(ctx, followID)
	if err != nil {
		return nil, err
	}

	if follow.UserID != actorID {
		return nil, apperrors.NewPermissionError("only the followed user can decide a follow request")
	}

	updated, err := s.follows.SetApproved(ctx, followID, approved)
	if err != nil {
		return nil, err
	}

	s.invalidateTimelines(ctx, updated.FollowerID)

	s.events.PublishFollowApproved(events.FollowApprovedEvent{
		FollowID:   updated.ID,
		UserID:     updated.UserID,
		FollowerID: updated.FollowerID,
		Approved:   updated.Approved,
	})

	return updated, nil
}

// UnfollowUser deletes the edge from the follower to the target user.
func (s *MutationService) UnfollowUser(ctx context.Context, followerID, targetUserID uuid.UUID) error {
	if err := s.follows.DeleteByPair(ctx, followerID, targetUserID); err != nil {
		return err
	}

	s.invalidateTimelines(ctx, followerID)

	return nil
}

// RemoveFollower deletes the edge from the given follower to the actor.
func (s *MutationService) RemoveFollower(ctx context.Context, actorID, followerID uuid.UUID) error {
	if err := s.follows.DeleteByPair(ctx, followerID, actorID); err != nil {
		return err
	}

	s.invalidateTimelines(ctx, followerID)

	return nil
}

// invalidateAuthorTimelines drops the cached timelines that can contain the
// author's ideas: the author's own and those of every follower, pending ones
// included since an edge may be approved before the cache entry expires.
func (s *MutationService) invalidateAuthorTimelines(ctx context.Context, authorID uuid.UUID) {
	if s.timelines == nil {
		return
	}

	viewerIDs, err := s.follows.ListFollowerIDs(ctx, authorID)
	if err != nil {
		s.logger.Warn("failed to list followers for cache invalidation",
			zap.String("author_id", authorID.String()), zap.Error(err))
		viewerIDs = nil
	}

	s.invalidateTimelines(ctx, append(viewerIDs, authorID)...)
}

func (s *MutationService) invalidateTimelines(ctx context.Context, viewerIDs ...uuid.UUID) {
	if s.timelines == nil {
		return
	}
	if err := s.timelines.Invalidate(ctx, viewerIDs...); err != nil {
		s.logger.Warn("timeline cache invalidation failed", zap.Error(err))
	}
}
