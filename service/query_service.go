package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideas-service/cache"
	"ideas-service/model"
	"ideas-service/repository"
)

// TimelineCache is the read-through cache consulted by Timeline. Get
// reports a miss with cache.ErrMiss. The Redis implementation lives in the
// cache package; mutations invalidate through the same interface, so a
// cached timeline is never served after a mutation that could change it.
type TimelineCache interface {
	Get(ctx context.Context, viewerID uuid.UUID) ([]models.Idea, error)
	Set(ctx context.Context, viewerID uuid.UUID, ideas []models.Idea) error
	Invalidate(ctx context.Context, viewerIDs ...uuid.UUID) error
}

var _ TimelineCache = (*cache.TimelineCache)(nil)

// QueryService composes the visibility policy with the repositories into the
// read operations. All operations are side-effect free; the timeline cache
// is read-through and never consulted as a source of truth after a miss.
type QueryService struct {
	ideas     repository.IdeaRepository
	follows   repository.FollowRepository
	users     repository.UserRepository
	timelines TimelineCache
	logger    *zap.Logger
}

func NewQueryService(
	ideas repository.IdeaRepository,
	follows repository.FollowRepository,
	users repository.UserRepository,
	timelines TimelineCache,
	logger *zap.Logger,
) *QueryService {
	return &QueryService{
		ideas:     ideas,
		follows:   follows,
		users:     users,
		timelines: timelines,
		logger:    logger,
	}
}

// MyIdeas returns every idea authored by the viewer, newest first.
func (s *QueryService) MyIdeas(ctx context.Context, viewerID uuid.UUID) ([]models.Idea, error) {
	return s.ideas.ListByAuthor(ctx, viewerID, nil)
}

// UserIdeas returns the author's ideas the viewer may see. The follow graph
// is consulted once for the (viewer, author) pair; the resulting visibility
// set then filters the ideas in a single repository query.
func (s *QueryService) UserIdeas(ctx context.Context, viewerID, authorID uuid.UUID) ([]models.Idea, error) {
	if viewerID == authorID {
		return s.ideas.ListByAuthor(ctx, viewerID, nil)
	}

	approved, err := s.follows.HasApprovedFollow(ctx, viewerID, authorID)
	if err != nil {
		return nil, err
	}

	allowed := AllowedVisibilities(viewerID, authorID, approved)
	return s.ideas.ListByAuthor(ctx, authorID, allowed)
}

// Timeline returns the viewer's own ideas merged with PUBLIC and PROTECTED
// ideas from authors the viewer follows with an approved edge, deduplicated
// and newest first.
func (s *QueryService) Timeline(ctx context.Context, viewerID uuid.UUID) ([]models.Idea, error) {
	if s.timelines != nil {
		cached, err := s.timelines.Get(ctx, viewerID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("timeline cache read failed", zap.String("viewer_id", viewerID.String()), zap.Error(err))
		}
	}

	ideas, err := s.ideas.ListTimeline(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if s.timelines != nil {
		if err := s.timelines.Set(ctx, viewerID, ideas); err != nil {
			s.logger.Warn("timeline cache write failed", zap.String("viewer_id", viewerID.String()), zap.Error(err))
		}
	}

	return ideas, nil
}

// MyFollowers returns the approved edges pointing at the viewer.
func (s *QueryService) MyFollowers(ctx context.Context, viewerID uuid.UUID) ([]models.Follow, error) {
	return s.follows.ListFollowers(ctx, viewerID, true)
}

// MyPendingFollowers returns the edges awaiting the viewer's decision.
func (s *QueryService) MyPendingFollowers(ctx context.Context, viewerID uuid.UUID) ([]models.Follow, error) {
	return s.follows.ListFollowers(ctx, viewerID, false)
}

// MyFollows returns the approved edges originating from the viewer.
func (s *QueryService) MyFollows(ctx context.Context, viewerID uuid.UUID) ([]models.Follow, error) {
	return s.follows.ListFollowing(ctx, viewerID)
}

// SearchUsers finds users whose username contains the search string,
// case-insensitively.
func (s *QueryService) SearchUsers(ctx context.Context, search string) ([]models.User, error) {
	return s.users.SearchByUsername(ctx, search)
}
