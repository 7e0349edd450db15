package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every operation.
type brokenStore struct{}

var errBackend = errors.New("backend down")

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errBackend }
func (brokenStore) Set(context.Context, string, []byte) error   { return errBackend }
func (brokenStore) Delete(context.Context, string) error        { return errBackend }
func (brokenStore) Ping(context.Context) error                  { return errBackend }

type line struct {
	ID  int `json:"id"`
	Qty int `json:"qty"`
}

func TestReadWrite_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	in := []line{{ID: 1, Qty: 2}, {ID: 7, Qty: 1}}

	require.NoError(t, Write(ctx, s, KeyCart, in))

	out, ok := Read[[]line](ctx, s, KeyCart)
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestRead_Missing(t *testing.T) {
	out, ok := Read[[]line](context.Background(), NewMemoryStore(), KeyCart)
	assert.False(t, ok)
	assert.Nil(t, out)
}

func TestRead_UndecodableIsAbsent(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), KeyCart, []byte("{not json")))

	out, ok := Read[[]line](context.Background(), s, KeyCart)
	assert.False(t, ok)
	assert.Nil(t, out)
}

func TestRead_WrongShapeIsAbsent(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), KeyCart, []byte(`{"id":1}`)))

	_, ok := Read[[]line](context.Background(), s, KeyCart)
	assert.False(t, ok)
}

func TestRead_BackendErrorIsAbsent(t *testing.T) {
	_, ok := Read[[]line](context.Background(), brokenStore{}, KeyCart)
	assert.False(t, ok)
}

func TestWrite_Errors(t *testing.T) {
	err := Write(context.Background(), brokenStore{}, KeyCart, []line{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBackend)

	err = Write(context.Background(), NewMemoryStore(), KeyCart, math.Inf(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode cart")
}

func TestRemove(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, Write(ctx, s, KeyUser, map[string]string{"u": "x"}))
	require.NoError(t, Remove(ctx, s, KeyUser))
	_, ok := Read[map[string]string](ctx, s, KeyUser)
	assert.False(t, ok)

	assert.ErrorIs(t, Remove(ctx, brokenStore{}, KeyUser), errBackend)
}
