package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Contract(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	v, err := r.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, v)

	in := []byte("value")
	require.NoError(t, r.Set(ctx, "k", in))
	in[0] = 'X'

	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v, "stored bytes must not alias the caller's slice")

	v[0] = 'Y'
	again, _ := r.Get(ctx, "k")
	assert.Equal(t, []byte("value"), again, "returned bytes must not alias storage")

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.DeleteMany(ctx, "a", "b", "missing"))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"k": []byte("value")}, m)

	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Set(ctx, "z", []byte{9}))
	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*SQLiteRepository)(nil)
)
