package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fantasyServer answers each slot with n players named "<slot> Player <i>".
// Slots listed in failing return a 500.
func fantasyServer(t *testing.T, n int, failing map[int]bool) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/ffl/seasons/2024/players", r.URL.Path)
		assert.Equal(t, "kona_player_info", r.URL.Query().Get("view"))

		var filter struct {
			Players struct {
				FilterSlotIDs struct {
					Value []int `json:"value"`
				} `json:"filterSlotIds"`
				Limit int `json:"limit"`
			} `json:"players"`
		}
		err := json.Unmarshal([]byte(r.Header.Get("X-Fantasy-Filter")), &filter)
		if !assert.NoError(t, err) || !assert.Len(t, filter.Players.FilterSlotIDs.Value, 1) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, 50, filter.Players.Limit)

		slotID := filter.Players.FilterSlotIDs.Value[0]
		if failing[slotID] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		type entry struct {
			Player struct {
				ID        int    `json:"id"`
				FullName  string `json:"fullName"`
				ProTeamID int    `json:"proTeamId"`
			} `json:"player"`
		}
		resp := struct {
			Players []entry `json:"players"`
		}{}
		for i := range n {
			var e entry
			e.Player.ID = slotID*1000 + i
			e.Player.FullName = fmt.Sprintf("Slot%d Player %d", slotID, i+1)
			e.Player.ProTeamID = []int{12, 18, 99}[i%3]
			resp.Players = append(resp.Players, e)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestESPNFantasy_Fetch(t *testing.T) {
	srv, calls := fantasyServer(t, 3, nil)

	s := NewESPNFantasy(testFetcher(), srv.URL+"/ffl", 2024, testTables(t))
	assert.Equal(t, NameESPNFantasy, s.Name())

	players, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(6), calls.Load())
	require.Len(t, players, 18)

	first := players[0]
	assert.Equal(t, "Slot1 Player 1", first.Name)
	assert.Equal(t, "QB", first.Position)
	assert.Equal(t, "KC", first.Team)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "1000", first.SourceID)

	assert.Equal(t, "NO", players[1].Team)
	assert.Equal(t, "FA", players[2].Team)
	assert.Equal(t, 3, players[2].Rank)

	last := players[len(players)-1]
	assert.Equal(t, "D/ST", last.Position)
}

func TestESPNFantasy_TruncatesToLimit(t *testing.T) {
	srv, _ := fantasyServer(t, 60, nil)
	players, err := NewESPNFantasy(testFetcher(), srv.URL+"/ffl", 2024, testTables(t)).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, players, 6*RankingLimit)
	assert.Equal(t, RankingLimit, players[RankingLimit-1].Rank)
}

func TestESPNFantasy_SkipsFailedPositions(t *testing.T) {
	srv, _ := fantasyServer(t, 2, map[int]bool{1: true, 16: true})
	players, err := NewESPNFantasy(testFetcher(), srv.URL+"/ffl", 2024, testTables(t)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 8)
	for _, p := range players {
		assert.NotEqual(t, "QB", p.Position)
		assert.NotEqual(t, "D/ST", p.Position)
	}
}

func TestESPNFantasy_AllPositionsFail(t *testing.T) {
	srv, _ := fantasyServer(t, 2, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 16: true})
	_, err := NewESPNFantasy(testFetcher(), srv.URL+"/ffl", 2024, testTables(t)).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no position succeeded")
}

func TestFantasyFilter(t *testing.T) {
	got, err := fantasyFilter(16)
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":{"filterSlotIds":{"value":[16]},"limit":50,"sortPercOwned":{"sortPriority":1,"sortAsc":false}}}`, got)
}
