package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideas-service/cache"
	"ideas-service/model"
	"ideas-service/repository/inmem"
	"ideas-service/service"
)

// fakeTimelineCache keeps cached timelines in a map so tests can seed
// entries and observe invalidation.
type fakeTimelineCache struct {
	mu   sync.Mutex
	data map[uuid.UUID][]models.Idea
}

func newFakeTimelineCache() *fakeTimelineCache {
	return &fakeTimelineCache{data: make(map[uuid.UUID][]models.Idea)}
}

func (c *fakeTimelineCache) Get(_ context.Context, viewerID uuid.UUID) ([]models.Idea, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ideas, ok := c.data[viewerID]
	if !ok {
		return nil, cache.ErrMiss
	}
	return ideas, nil
}

func (c *fakeTimelineCache) Set(_ context.Context, viewerID uuid.UUID, ideas []models.Idea) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[viewerID] = ideas
	return nil
}

func (c *fakeTimelineCache) Invalidate(_ context.Context, viewerIDs ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range viewerIDs {
		delete(c.data, id)
	}
	return nil
}

func (c *fakeTimelineCache) cached(viewerID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[viewerID]
	return ok
}

func newCachedTestEnv() (*testEnv, *fakeTimelineCache) {
	store := inmem.NewStore()
	timelines := newFakeTimelineCache()
	logger := zap.NewNop()
	env := &testEnv{
		store:     store,
		queries:   service.NewQueryService(store.Ideas(), store.Follows(), store.Users(), timelines, logger),
		mutations: service.NewMutationService(store.Ideas(), store.Follows(), store.Users(), timelines, nil, logger),
	}
	return env, timelines
}

func TestTimelineServedFromCache(t *testing.T) {
	ctx := context.Background()
	env, timelines := newCachedTestEnv()
	alice := env.addUser(t, "alice")

	seeded := []models.Idea{{ID: uuid.New(), AuthorID: alice, Text: "from cache", Visibility: models.VisibilityPublic}}
	require.NoError(t, timelines.Set(ctx, alice, seeded))

	timeline, err := env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, "from cache", timeline[0].Text)
}

func TestTimelineMissFillsCache(t *testing.T) {
	ctx := context.Background()
	env, timelines := newCachedTestEnv()
	alice := env.addUser(t, "alice")

	_, err := env.mutations.CreateIdea(ctx, alice, "hello", models.VisibilityPublic)
	require.NoError(t, err)

	require.False(t, timelines.cached(alice))

	timeline, err := env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.True(t, timelines.cached(alice))
}

func TestUnfollowInvalidatesCachedTimeline(t *testing.T) {
	ctx := context.Background()
	env, timelines := newCachedTestEnv()
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")

	env.approvedFollow(t, ctx, alice, bob)
	_, err := env.mutations.CreateIdea(ctx, bob, "members only", models.VisibilityProtected)
	require.NoError(t, err)

	timeline, err := env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	require.True(t, timelines.cached(alice))

	require.NoError(t, env.mutations.UnfollowUser(ctx, alice, bob))

	assert.False(t, timelines.cached(alice))
	timeline, err = env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, timeline)
}

func TestChangeVisibilityInvalidatesFollowerTimelines(t *testing.T) {
	ctx := context.Background()
	env, timelines := newCachedTestEnv()
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")

	env.approvedFollow(t, ctx, alice, bob)
	idea, err := env.mutations.CreateIdea(ctx, bob, "was public", models.VisibilityPublic)
	require.NoError(t, err)

	timeline, err := env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	require.Len(t, timeline, 1)

	_, err = env.mutations.ChangeIdeaVisibility(ctx, bob, idea.ID, models.VisibilityPrivate)
	require.NoError(t, err)

	assert.False(t, timelines.cached(alice))
	assert.False(t, timelines.cached(bob))
	timeline, err = env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, timeline)
}

func TestDeleteIdeaInvalidatesCachedTimelines(t *testing.T) {
	ctx := context.Background()
	env, timelines := newCachedTestEnv()
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")

	env.approvedFollow(t, ctx, alice, bob)
	idea, err := env.mutations.CreateIdea(ctx, bob, "short-lived", models.VisibilityPublic)
	require.NoError(t, err)

	_, err = env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	require.True(t, timelines.cached(alice))

	require.NoError(t, env.mutations.DeleteIdea(ctx, bob, idea.ID))

	assert.False(t, timelines.cached(alice))
	timeline, err := env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, timeline)
}

func TestApproveFollowerInvalidatesFollowerTimeline(t *testing.T) {
	ctx := context.Background()
	env, timelines := newCachedTestEnv()
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")

	_, err := env.mutations.CreateIdea(ctx, bob, "for approved followers", models.VisibilityProtected)
	require.NoError(t, err)

	follow, err := env.mutations.FollowUser(ctx, alice, bob)
	require.NoError(t, err)

	timeline, err := env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	require.Empty(t, timeline)
	require.True(t, timelines.cached(alice))

	_, err = env.mutations.ApproveFollower(ctx, bob, follow.ID, true)
	require.NoError(t, err)

	assert.False(t, timelines.cached(alice))
	timeline, err = env.queries.Timeline(ctx, alice)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, "for approved followers", timeline[0].Text)
}
