package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/draftboard-cli/internal/model"
)

type mockSource struct {
	mock.Mock
	name string
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(ctx context.Context) ([]model.RawPlayer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RawPlayer), args.Error(1)
}

func TestChain_FirstSuccess(t *testing.T) {
	primary := &mockSource{name: "primary"}
	fallback := &mockSource{name: "fallback"}
	primary.On("Fetch", mock.Anything).Return([]model.RawPlayer{{Name: "Josh Allen", Position: "QB", Rank: 1}}, nil)

	players, name, err := NewChain(primary, fallback).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "primary", name)
	assert.Len(t, players, 1)
	fallback.AssertNotCalled(t, "Fetch", mock.Anything)
}

func TestChain_FallbackOnErrorAndEmpty(t *testing.T) {
	failing := &mockSource{name: "failing"}
	empty := &mockSource{name: "empty"}
	last := &mockSource{name: "last"}
	failing.On("Fetch", mock.Anything).Return(nil, errors.New("connection refused"))
	empty.On("Fetch", mock.Anything).Return([]model.RawPlayer{}, nil)
	last.On("Fetch", mock.Anything).Return([]model.RawPlayer{{Name: "Justin Tucker", Position: "K", Rank: 1}}, nil)

	players, name, err := NewChain(failing, empty, last).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "last", name)
	assert.Equal(t, "Justin Tucker", players[0].Name)
	failing.AssertExpectations(t)
	empty.AssertExpectations(t)
}

func TestChain_AllFail(t *testing.T) {
	a := &mockSource{name: "a"}
	b := &mockSource{name: "b"}
	a.On("Fetch", mock.Anything).Return(nil, errors.New("a down"))
	b.On("Fetch", mock.Anything).Return(nil, errors.New("b down"))

	_, _, err := NewChain(a, b).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all sources failed")
	assert.Contains(t, err.Error(), "b down")
}

func TestChain_Empty(t *testing.T) {
	_, _, err := NewChain().Fetch(context.Background())
	require.Error(t, err)
}

func TestChain_CatalogNeverFails(t *testing.T) {
	failing := &mockSource{name: "failing"}
	failing.On("Fetch", mock.Anything).Return(nil, errors.New("offline"))

	players, name, err := NewChain(failing, NewCatalog(testTables(t))).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NameCatalog, name)
	assert.NotEmpty(t, players)
}

func TestCatalog_RanksWithinPosition(t *testing.T) {
	players, err := NewCatalog(testTables(t)).Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, players)

	assert.Equal(t, "QB", players[0].Position)
	assert.Equal(t, 1, players[0].Rank)

	next := map[string]int{}
	for _, p := range players {
		next[p.Position]++
		assert.Equal(t, next[p.Position], p.Rank, p.Name)
		assert.NotEmpty(t, p.Team, p.Name)
	}
	assert.Equal(t, 40, next["QB"])
	assert.Equal(t, 32, next["DEF"])
}
