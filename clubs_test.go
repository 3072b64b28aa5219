package strava

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClubsGet(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/clubs/1", func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		w.Write([]byte(`{
			"id": 1,
			"name": "Team Strava Cycling",
			"sport_type": "cycling",
			"member_count": 116,
			"verified": true,
			"membership": "member"
		}`))
	})

	club, err := c.Clubs.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Team Strava Cycling", club.Name)
	assert.Equal(t, 116, club.MemberCount)
	assert.Equal(t, "member", club.Membership)

	_, err = c.Clubs.Get(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestClubsListJoined(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/athlete/clubs", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "name": "A"}, {"id": 2, "name": "B"}]`))
	})

	clubs, err := c.Clubs.ListJoined(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, clubs, 2)
	assert.Equal(t, "B", clubs[1].Name)
}

func TestClubsListMembers(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/clubs/1/members", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[{"firstname": "Sadia", "membership": "member", "admin": true}]`))
	})

	members, err := c.Clubs.ListMembers(context.Background(), 1, &ListOptions{PerPage: 100})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Sadia", members[0].FirstName)
	assert.True(t, members[0].Admin)
}

func TestClubsListAdmins(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/clubs/1/admins", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"firstname": "Noor", "owner": true}]`))
	})

	admins, err := c.Clubs.ListAdmins(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.True(t, admins[0].Owner)
}

func TestClubsJoin(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/clubs/1/join", func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"success": true, "active": false, "membership": "pending"}`))
	})

	res, err := c.Clubs.Join(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "pending", res.Membership)

	_, err = c.Clubs.Join(context.Background(), -1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestClubsLeave(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/clubs/1/leave", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"success": true, "active": false}`))
	})

	res, err := c.Clubs.Leave(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Active)
}

func TestClubsListActivities(t *testing.T) {
	c, mux := newTestClient(t)
	mux.HandleFunc("/api/v3/clubs/1/activities", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "World Championship", "distance": 2641.7, "type": "Ride"}]`))
	})

	activities, err := c.Clubs.ListActivities(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "World Championship", activities[0].Name)
}
