package strava

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// AthletesService handles athlete profiles, zones, and lifetime stats.
type AthletesService struct {
	service
}

// Athlete is a Strava athlete. The detailed representation is only returned
// for the authenticated athlete; other athletes come back as summaries.
type Athlete struct {
	ID                    int64     `json:"id"`
	ResourceState         int       `json:"resource_state"`
	FirstName             string    `json:"firstname"`
	LastName              string    `json:"lastname"`
	ProfileMedium         string    `json:"profile_medium"`
	Profile               string    `json:"profile"`
	City                  string    `json:"city"`
	State                 string    `json:"state"`
	Country               string    `json:"country"`
	Sex                   string    `json:"sex"`
	Premium               bool      `json:"premium"`
	Summit                bool      `json:"summit"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	FollowerCount         int       `json:"follower_count"`
	FriendCount           int       `json:"friend_count"`
	MeasurementPreference string    `json:"measurement_preference"`
	FTP                   int       `json:"ftp"`
	Weight                float64   `json:"weight"` // kilograms
	Clubs                 []*Club   `json:"clubs,omitempty"`
	Bikes                 []*Gear   `json:"bikes,omitempty"`
	Shoes                 []*Gear   `json:"shoes,omitempty"`
}

// HeartRateZones is the athlete's configured heart-rate zones.
type HeartRateZones struct {
	CustomZones bool          `json:"custom_zones"`
	Zones       []*ZoneBucket `json:"zones"`
}

// PowerZones is the athlete's configured power zones.
type PowerZones struct {
	Zones []*ZoneBucket `json:"zones"`
}

// AthleteZones bundles the athlete's zone configuration.
type AthleteZones struct {
	HeartRate *HeartRateZones `json:"heart_rate,omitempty"`
	Power     *PowerZones     `json:"power,omitempty"`
}

// ActivityTotal aggregates a set of activities.
type ActivityTotal struct {
	Count            int     `json:"count"`
	Distance         float64 `json:"distance"`
	MovingTime       int     `json:"moving_time"`
	ElapsedTime      int     `json:"elapsed_time"`
	ElevationGain    float64 `json:"elevation_gain"`
	AchievementCount int     `json:"achievement_count"`
}

// AthleteStats holds an athlete's rolled-up activity totals.
type AthleteStats struct {
	BiggestRideDistance       float64        `json:"biggest_ride_distance"`
	BiggestClimbElevationGain float64        `json:"biggest_climb_elevation_gain"`
	RecentRideTotals          *ActivityTotal `json:"recent_ride_totals,omitempty"`
	RecentRunTotals           *ActivityTotal `json:"recent_run_totals,omitempty"`
	RecentSwimTotals          *ActivityTotal `json:"recent_swim_totals,omitempty"`
	YTDRideTotals             *ActivityTotal `json:"ytd_ride_totals,omitempty"`
	YTDRunTotals              *ActivityTotal `json:"ytd_run_totals,omitempty"`
	YTDSwimTotals             *ActivityTotal `json:"ytd_swim_totals,omitempty"`
	AllRideTotals             *ActivityTotal `json:"all_ride_totals,omitempty"`
	AllRunTotals              *ActivityTotal `json:"all_run_totals,omitempty"`
	AllSwimTotals             *ActivityTotal `json:"all_swim_totals,omitempty"`
}

// GetAuthenticated returns the currently authenticated athlete in detailed
// form.
func (s *AthletesService) GetAuthenticated(ctx context.Context) (*Athlete, error) {
	athlete := new(Athlete)
	if err := s.client.do(ctx, "GET", "athlete", nil, nil, athlete); err != nil {
		return nil, err
	}
	return athlete, nil
}

// Get returns another athlete's public profile.
func (s *AthletesService) Get(ctx context.Context, id int64) (*Athlete, error) {
	if id <= 0 {
		return nil, invalidArg("athlete id", "must be positive")
	}
	athlete := new(Athlete)
	if err := s.client.do(ctx, "GET", "athletes/"+itoa(id), nil, nil, athlete); err != nil {
		return nil, err
	}
	return athlete, nil
}

// UpdateWeight sets the authenticated athlete's weight in kilograms. Requires
// profile:write.
func (s *AthletesService) UpdateWeight(ctx context.Context, weight float64) (*Athlete, error) {
	if weight <= 0 {
		return nil, invalidArg("weight", "must be positive")
	}
	form := url.Values{}
	form.Set("weight", strconv.FormatFloat(weight, 'f', -1, 64))

	athlete := new(Athlete)
	if err := s.client.do(ctx, "PUT", "athlete", nil, form, athlete); err != nil {
		return nil, err
	}
	return athlete, nil
}

// GetZones returns the authenticated athlete's heart-rate and power zones.
// Requires profile:read_all.
func (s *AthletesService) GetZones(ctx context.Context) (*AthleteZones, error) {
	zones := new(AthleteZones)
	if err := s.client.do(ctx, "GET", "athlete/zones", nil, nil, zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// GetStats returns the lifetime ride, run, and swim totals of an athlete. Only
// the authenticated athlete's stats are visible.
func (s *AthletesService) GetStats(ctx context.Context, id int64) (*AthleteStats, error) {
	if id <= 0 {
		return nil, invalidArg("athlete id", "must be positive")
	}
	stats := new(AthleteStats)
	if err := s.client.do(ctx, "GET", "athletes/"+itoa(id)+"/stats", nil, nil, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ListKOMs returns an athlete's segment KOMs, QOMs, and course records.
func (s *AthletesService) ListKOMs(ctx context.Context, id int64, opt *ListOptions) ([]*SegmentEffort, error) {
	if id <= 0 {
		return nil, invalidArg("athlete id", "must be positive")
	}
	var efforts []*SegmentEffort
	if err := s.client.do(ctx, "GET", "athletes/"+itoa(id)+"/koms", opt.values(), nil, &efforts); err != nil {
		return nil, err
	}
	return efforts, nil
}
