package inmem_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideas-service/model"
	apperrors "ideas-service/pkg/errors"
	"ideas-service/repository/inmem"
)

func TestListByAuthorOrderingAndTies(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	ideas := store.Ideas()
	author := uuid.New()

	now := time.Now().UTC()
	older := models.Idea{ID: uuid.New(), AuthorID: author, Text: "older", Visibility: models.VisibilityPublic, CreatedOn: now.Add(-time.Minute)}
	tieA := models.Idea{ID: uuid.New(), AuthorID: author, Text: "tie a", Visibility: models.VisibilityPublic, CreatedOn: now}
	tieB := models.Idea{ID: uuid.New(), AuthorID: author, Text: "tie b", Visibility: models.VisibilityPublic, CreatedOn: now}

	for _, idea := range []models.Idea{older, tieA, tieB} {
		i := idea
		require.NoError(t, ideas.Create(ctx, &i))
	}

	got, err := ideas.ListByAuthor(ctx, author, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first; equal timestamps keep insertion order.
	assert.Equal(t, tieA.ID, got[0].ID)
	assert.Equal(t, tieB.ID, got[1].ID)
	assert.Equal(t, older.ID, got[2].ID)
}

func TestListByAuthorVisibilityFilter(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	ideas := store.Ideas()
	author := uuid.New()

	for _, v := range []models.Visibility{models.VisibilityPublic, models.VisibilityProtected, models.VisibilityPrivate} {
		idea := models.Idea{ID: uuid.New(), AuthorID: author, Text: string(v), Visibility: v, CreatedOn: time.Now().UTC()}
		require.NoError(t, ideas.Create(ctx, &idea))
	}

	got, err := ideas.ListByAuthor(ctx, author, []models.Visibility{models.VisibilityPublic, models.VisibilityProtected})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, idea := range got {
		assert.NotEqual(t, models.VisibilityPrivate, idea.Visibility)
	}
}

func TestFollowPairUniqueness(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	follows := store.Follows()

	follower := uuid.New()
	user := uuid.New()

	first := models.Follow{ID: uuid.New(), UserID: user, FollowerID: follower, CreatedAt: time.Now().UTC()}
	require.NoError(t, follows.Create(ctx, &first))

	dup := models.Follow{ID: uuid.New(), UserID: user, FollowerID: follower, CreatedAt: time.Now().UTC()}
	err := follows.Create(ctx, &dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// The reverse direction is a different pair.
	reverse := models.Follow{ID: uuid.New(), UserID: follower, FollowerID: user, CreatedAt: time.Now().UTC()}
	assert.NoError(t, follows.Create(ctx, &reverse))
}

func TestDeleteByPairNotFound(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()

	err := store.Follows().DeleteByPair(ctx, uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSearchByUsernameLiteralMetacharacters(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	store.AddUser(models.User{ID: uuid.New(), Username: "percent%user"})
	store.AddUser(models.User{ID: uuid.New(), Username: "under_score"})
	store.AddUser(models.User{ID: uuid.New(), Username: "plain"})

	// % and _ match literally, not as wildcards.
	got, err := store.Users().SearchByUsername(ctx, "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "percent%user", got[0].Username)

	got, err = store.Users().SearchByUsername(ctx, "r_s")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "under_score", got[0].Username)
}
