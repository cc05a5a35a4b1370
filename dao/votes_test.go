package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteRecords(t *testing.T) {
	d := testDao(t)

	voted, err := d.HasVoted("@bob/my-post")
	require.NoError(t, err)
	assert.False(t, voted)

	require.NoError(t, d.RecordVote("2026-09-01", "@bob/my-post", 40))

	voted, err = d.HasVoted("@bob/my-post")
	require.NoError(t, err)
	assert.True(t, voted)

	voted, err = d.HasVoted("@bob/other-post")
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestCollectionPosts(t *testing.T) {
	d := testDao(t)

	_, ok, err := d.CollectionPostPermlink("2026-09-01")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.SaveCollectionPost("2026-09-01", "hug-collection-2026-09-01"))

	permlink, ok, err := d.CollectionPostPermlink("2026-09-01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hug-collection-2026-09-01", permlink)
}
