package bot

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionPostCreatedOnce(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.EnableCollectionPost = true
	env.balances.setLiquid("alice", decimal.NewFromInt(50))
	env.balances.setLiquid("carol", decimal.NewFromInt(50))

	require.NoError(t, env.bot.processComment(testComment("alice", "bob", "p1", "!HUG")))
	require.NoError(t, env.bot.processComment(testComment("carol", "bob", "p2", "!HUG")))

	require.Len(t, env.poster.roots, 1, "one digest post per day")
	assert.Equal(t, "hug-collection-2026-09-01", env.poster.roots[0])

	require.Len(t, env.poster.replies, 2)
	want := "@hug.bot/hug-collection-2026-09-01"
	assert.Equal(t, want, env.poster.replies[0].parent)
	assert.Equal(t, want, env.poster.replies[1].parent)
}

func TestCollectionPostPermlinkRemembered(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.bot.collectionPostIdentifier("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, "@hug.bot/hug-collection-2026-09-01", id)

	permlink, ok, err := env.d.CollectionPostPermlink("2026-09-01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hug-collection-2026-09-01", permlink)

	// second lookup reuses the stored permlink without posting again
	id2, err := env.bot.collectionPostIdentifier("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Len(t, env.poster.roots, 1)
}

func TestDirectReplyWhenCollectionDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.balances.setLiquid("alice", decimal.NewFromInt(50))

	require.NoError(t, env.bot.processComment(testComment("alice", "bob", "p1", "!HUG")))

	assert.Empty(t, env.poster.roots)
	require.Len(t, env.poster.replies, 1)
	assert.Equal(t, "@alice/p1", env.poster.replies[0].parent)
}

func TestReplyRetriesThenGivesUp(t *testing.T) {
	env := newTestEnv(t)
	env.poster.err = errors.New("parent not found")

	ok := env.bot.postReplyWithRetry("@alice/p1", "hi")
	assert.False(t, ok)
}
