package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunchworks/hunch/pkg/hunch/internalerr"
	"github.com/hunchworks/hunch/pkg/hunch/session"
)

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	st := New()
	defer st.Close()

	created, err := st.Create(ctx, "birds")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "birds", created.Ruleset)
	assert.NotNil(t, created.Assertions)

	got, err := st.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "birds", got.Ruleset)
}

func TestGetMissing(t *testing.T) {
	st := New()
	_, err := st.Get(context.Background(), "01ZZZZZZZZZZZZZZZZZZZZZZZZ")
	require.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestPutUpdates(t *testing.T) {
	ctx := context.Background()
	st := New()

	sess, err := st.Create(ctx, "birds")
	require.NoError(t, err)

	sess.Assertions["flies"] = false
	sess.Solved = true
	sess.Solution = "penguin"
	require.NoError(t, st.Put(ctx, sess))

	got, err := st.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"flies": false}, got.Assertions)
	assert.True(t, got.Solved)
	assert.Equal(t, "penguin", got.Solution)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestPutMissing(t *testing.T) {
	st := New()
	err := st.Put(context.Background(), session.Session{ID: "ghost"})
	require.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestGetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := New()

	sess, err := st.Create(ctx, "birds")
	require.NoError(t, err)

	first, err := st.Get(ctx, sess.ID)
	require.NoError(t, err)
	first.Assertions["tampered"] = true

	second, err := st.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, second.Assertions)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := New()

	a, err := st.Create(ctx, "birds")
	require.NoError(t, err)
	b, err := st.Create(ctx, "spongebob")
	require.NoError(t, err)

	all, err := st.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	assert.Equal(t, a.ID, all[1].ID)

	one, err := st.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, b.ID, one[0].ID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	st := New()

	sess, err := st.Create(ctx, "birds")
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, sess.ID))
	_, err = st.Get(ctx, sess.ID)
	require.ErrorIs(t, err, internalerr.ErrNotFound)

	require.ErrorIs(t, st.Delete(ctx, sess.ID), internalerr.ErrNotFound)
}
