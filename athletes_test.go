package strava

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAthletesGetAuthenticated(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athlete", func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		w.Write([]byte(`{
			"id": 1234567,
			"resource_state": 3,
			"firstname": "Marianne",
			"lastname": "V.",
			"premium": true,
			"weight": 64.5,
			"bikes": [{"id": "b105763", "primary": true, "name": "Cannondale"}]
		}`))
	})

	athlete, err := c.Athletes.GetAuthenticated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), athlete.ID)
	assert.Equal(t, "Marianne", athlete.FirstName)
	assert.Equal(t, 64.5, athlete.Weight)
	require.Len(t, athlete.Bikes, 1)
	assert.True(t, athlete.Bikes[0].Primary)
}

func TestAthletesGet(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athletes/227615", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 227615, "resource_state": 2, "firstname": "Juan"}`))
	})

	athlete, err := c.Athletes.Get(context.Background(), 227615)
	require.NoError(t, err)
	assert.Equal(t, "Juan", athlete.FirstName)

	_, err = c.Athletes.Get(context.Background(), -1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAthletesUpdateWeight(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athlete", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "70.2", r.PostForm.Get("weight"))
		w.Write([]byte(`{"id": 1234567, "weight": 70.2}`))
	})

	athlete, err := c.Athletes.UpdateWeight(context.Background(), 70.2)
	require.NoError(t, err)
	assert.Equal(t, 70.2, athlete.Weight)

	_, err = c.Athletes.UpdateWeight(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAthletesGetZones(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athlete/zones", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"heart_rate": {"custom_zones": false, "zones": [{"min": 0, "max": 115}, {"min": 115, "max": 152}]},
			"power": {"zones": [{"min": 0, "max": 180}]}
		}`))
	})

	zones, err := c.Athletes.GetZones(context.Background())
	require.NoError(t, err)
	require.NotNil(t, zones.HeartRate)
	assert.False(t, zones.HeartRate.CustomZones)
	require.Len(t, zones.HeartRate.Zones, 2)
	assert.Equal(t, 152, zones.HeartRate.Zones[1].Max)
	require.NotNil(t, zones.Power)
	require.Len(t, zones.Power.Zones, 1)
}

func TestAthletesGetStats(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athletes/1234567/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"biggest_ride_distance": 175454.0,
			"recent_ride_totals": {"count": 3, "distance": 12054.9, "moving_time": 2600},
			"ytd_run_totals": {"count": 22, "distance": 170000}
		}`))
	})

	stats, err := c.Athletes.GetStats(context.Background(), 1234567)
	require.NoError(t, err)
	assert.Equal(t, 175454.0, stats.BiggestRideDistance)
	require.NotNil(t, stats.RecentRideTotals)
	assert.Equal(t, 3, stats.RecentRideTotals.Count)
	require.NotNil(t, stats.YTDRunTotals)
	assert.Equal(t, 22, stats.YTDRunTotals.Count)
}

func TestAthletesListKOMs(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athletes/1234567/koms", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(`[{"id": 123, "name": "Alpe du Zwift", "kom_rank": 1}]`))
	})

	efforts, err := c.Athletes.ListKOMs(context.Background(), 1234567, &ListOptions{Page: 1})
	require.NoError(t, err)
	require.Len(t, efforts, 1)
	assert.Equal(t, 1, efforts[0].KOMRank)
}
