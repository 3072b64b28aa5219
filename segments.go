package strava

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SegmentsService handles segments, segment efforts, leaderboards, and the
// segment explorer.
type SegmentsService struct {
	service
}

// Segment is a portion of road or trail athletes compete over.
type Segment struct {
	ID                  int64                `json:"id"`
	ResourceState       int                  `json:"resource_state"`
	Name                string               `json:"name"`
	ActivityType        ActivityType         `json:"activity_type"`
	Distance            float64              `json:"distance"`
	AverageGrade        float64              `json:"average_grade"`
	MaximumGrade        float64              `json:"maximum_grade"`
	ElevationHigh       float64              `json:"elevation_high"`
	ElevationLow        float64              `json:"elevation_low"`
	TotalElevationGain  float64              `json:"total_elevation_gain"`
	StartLatLng         LatLng               `json:"start_latlng"`
	EndLatLng           LatLng               `json:"end_latlng"`
	ClimbCategory       int                  `json:"climb_category"` // 0 (NC) through 5 (HC)
	City                string               `json:"city"`
	State               string               `json:"state"`
	Country             string               `json:"country"`
	Private             bool                 `json:"private"`
	Hazardous           bool                 `json:"hazardous"`
	Starred             bool                 `json:"starred"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
	Map                 *Map                 `json:"map,omitempty"`
	EffortCount         int                  `json:"effort_count"`
	AthleteCount        int                  `json:"athlete_count"`
	StarCount           int                  `json:"star_count"`
	AthleteSegmentStats *AthleteSegmentStats `json:"athlete_segment_stats,omitempty"`
}

// AthleteSegmentStats is the authenticated athlete's record on a segment.
type AthleteSegmentStats struct {
	PRElapsedTime int    `json:"pr_elapsed_time"`
	PRDate        string `json:"pr_date"` // YYYY-MM-DD
	EffortCount   int    `json:"effort_count"`
}

// Achievement marks a rank earned with a segment effort.
type Achievement struct {
	TypeID int    `json:"type_id"`
	Type   string `json:"type"` // "overall", "pr", "year_overall", ...
	Rank   int    `json:"rank"`
}

// SegmentEffort is an athlete's attempt at a segment within an activity.
type SegmentEffort struct {
	ID               int64          `json:"id"`
	ResourceState    int            `json:"resource_state"`
	Name             string         `json:"name"`
	Activity         *Activity      `json:"activity,omitempty"`
	Athlete          *Athlete       `json:"athlete,omitempty"`
	ElapsedTime      int            `json:"elapsed_time"`
	MovingTime       int            `json:"moving_time"`
	StartDate        time.Time      `json:"start_date"`
	StartDateLocal   time.Time      `json:"start_date_local"`
	Distance         float64        `json:"distance"`
	StartIndex       int            `json:"start_index"`
	EndIndex         int            `json:"end_index"`
	AverageCadence   float64        `json:"average_cadence"`
	AverageWatts     float64        `json:"average_watts"`
	DeviceWatts      bool           `json:"device_watts"`
	AverageHeartrate float64        `json:"average_heartrate"`
	MaxHeartrate     float64        `json:"max_heartrate"`
	Segment          *Segment       `json:"segment,omitempty"`
	KOMRank          int            `json:"kom_rank"`
	PRRank           int            `json:"pr_rank"`
	Achievements     []*Achievement `json:"achievements,omitempty"`
	Hidden           bool           `json:"hidden"`
}

// Get returns a segment by id.
func (s *SegmentsService) Get(ctx context.Context, id int64) (*Segment, error) {
	if id <= 0 {
		return nil, invalidArg("segment id", "must be positive")
	}
	segment := new(Segment)
	if err := s.client.do(ctx, "GET", "segments/"+itoa(id), nil, nil, segment); err != nil {
		return nil, err
	}
	return segment, nil
}

// ListStarred returns the segments starred by the authenticated athlete.
func (s *SegmentsService) ListStarred(ctx context.Context, opt *ListOptions) ([]*Segment, error) {
	var segments []*Segment
	if err := s.client.do(ctx, "GET", "segments/starred", opt.values(), nil, &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// Star stars or unstars a segment for the authenticated athlete.
func (s *SegmentsService) Star(ctx context.Context, id int64, starred bool) (*Segment, error) {
	if id <= 0 {
		return nil, invalidArg("segment id", "must be positive")
	}
	form := url.Values{}
	form.Set("starred", strconv.FormatBool(starred))

	segment := new(Segment)
	if err := s.client.do(ctx, "PUT", "segments/"+itoa(id)+"/starred", nil, form, segment); err != nil {
		return nil, err
	}
	return segment, nil
}

// GetEffort returns a single segment effort.
func (s *SegmentsService) GetEffort(ctx context.Context, effortID int64) (*SegmentEffort, error) {
	if effortID <= 0 {
		return nil, invalidArg("effort id", "must be positive")
	}
	effort := new(SegmentEffort)
	if err := s.client.do(ctx, "GET", "segment_efforts/"+itoa(effortID), nil, nil, effort); err != nil {
		return nil, err
	}
	return effort, nil
}

// ListEffortsOptions filters a segment effort listing.
type ListEffortsOptions struct {
	// AthleteID restricts efforts to a single athlete.
	AthleteID int64
	// StartDateLocal and EndDateLocal bound the efforts in the segment's
	// local time.
	StartDateLocal time.Time
	EndDateLocal   time.Time

	ListOptions
}

func (o *ListEffortsOptions) values() url.Values {
	if o == nil {
		return url.Values{}
	}
	q := o.ListOptions.values()
	if o.AthleteID > 0 {
		q.Set("athlete_id", itoa(o.AthleteID))
	}
	if !o.StartDateLocal.IsZero() {
		q.Set("start_date_local", o.StartDateLocal.Format(time.RFC3339))
	}
	if !o.EndDateLocal.IsZero() {
		q.Set("end_date_local", o.EndDateLocal.Format(time.RFC3339))
	}
	return q
}

// ListEfforts returns efforts on a segment, ordered by start date.
func (s *SegmentsService) ListEfforts(ctx context.Context, segmentID int64, opt *ListEffortsOptions) ([]*SegmentEffort, error) {
	if segmentID <= 0 {
		return nil, invalidArg("segment id", "must be positive")
	}
	var efforts []*SegmentEffort
	if err := s.client.do(ctx, "GET", "segments/"+itoa(segmentID)+"/all_efforts", opt.values(), nil, &efforts); err != nil {
		return nil, err
	}
	return efforts, nil
}

// LeaderboardOptions filters a segment leaderboard.
type LeaderboardOptions struct {
	// Gender filters entries to "M" or "F".
	Gender string
	// AgeGroup is a bracket such as "0_24", "25_34", or "65_plus".
	AgeGroup string
	// WeightClass is a bracket such as "0_54" or "55_64" (kilograms).
	WeightClass string
	// Following restricts entries to athletes the authenticated athlete
	// follows.
	Following bool
	// ClubID restricts entries to members of the given club.
	ClubID int64
	// DateRange is "this_year", "this_month", "this_week", or "today".
	DateRange string
	// ContextEntries is how many entries around the authenticated athlete to
	// include, up to 15.
	ContextEntries int

	ListOptions
}

func (o *LeaderboardOptions) values() url.Values {
	if o == nil {
		return url.Values{}
	}
	q := o.ListOptions.values()
	if o.Gender != "" {
		q.Set("gender", o.Gender)
	}
	if o.AgeGroup != "" {
		q.Set("age_group", o.AgeGroup)
	}
	if o.WeightClass != "" {
		q.Set("weight_class", o.WeightClass)
	}
	if o.Following {
		q.Set("following", "true")
	}
	if o.ClubID > 0 {
		q.Set("club_id", itoa(o.ClubID))
	}
	if o.DateRange != "" {
		q.Set("date_range", o.DateRange)
	}
	if o.ContextEntries > 0 {
		q.Set("context_entries", strconv.Itoa(o.ContextEntries))
	}
	return q
}

// Leaderboard ranks the efforts on a segment.
type Leaderboard struct {
	EffortCount int                 `json:"effort_count"`
	EntryCount  int                 `json:"entry_count"`
	KOMType     string              `json:"kom_type"` // "kom" or "cr"
	Entries     []*LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry is one ranked effort.
type LeaderboardEntry struct {
	AthleteName    string    `json:"athlete_name"`
	AthleteID      int64     `json:"athlete_id"`
	AthleteGender  string    `json:"athlete_gender"`
	AthleteProfile string    `json:"athlete_profile"`
	AverageHR      float64   `json:"average_hr"`
	AverageWatts   float64   `json:"average_watts"`
	Distance       float64   `json:"distance"`
	ElapsedTime    int       `json:"elapsed_time"`
	MovingTime     int       `json:"moving_time"`
	StartDate      time.Time `json:"start_date"`
	StartDateLocal time.Time `json:"start_date_local"`
	ActivityID     int64     `json:"activity_id"`
	EffortID       int64     `json:"effort_id"`
	Rank           int       `json:"rank"`
}

// GetLeaderboard returns the ranked efforts on a segment, optionally filtered
// by athlete attributes, club, or date range.
func (s *SegmentsService) GetLeaderboard(ctx context.Context, segmentID int64, opt *LeaderboardOptions) (*Leaderboard, error) {
	if segmentID <= 0 {
		return nil, invalidArg("segment id", "must be positive")
	}
	lb := new(Leaderboard)
	if err := s.client.do(ctx, "GET", "segments/"+itoa(segmentID)+"/leaderboard", opt.values(), nil, lb); err != nil {
		return nil, err
	}
	return lb, nil
}

// Bounds is a rectangle on the map given by its south-west and north-east
// corners.
type Bounds struct {
	SouthWest LatLng
	NorthEast LatLng
}

func (b Bounds) encode() string {
	return fmt.Sprintf("%g,%g,%g,%g",
		b.SouthWest.Lat(), b.SouthWest.Lng(),
		b.NorthEast.Lat(), b.NorthEast.Lng())
}

// ExploreOptions tunes a segment explorer query.
type ExploreOptions struct {
	// ActivityType is "riding" or "running". Defaults to riding.
	ActivityType string
	// MinCat and MaxCat bound the climb category for riding queries.
	MinCat int
	MaxCat int
}

// ExplorerSegment is the reduced segment representation returned by the
// explorer.
type ExplorerSegment struct {
	ID                  int64   `json:"id"`
	ResourceState       int     `json:"resource_state"`
	Name                string  `json:"name"`
	ClimbCategory       int     `json:"climb_category"`
	ClimbCategoryDesc   string  `json:"climb_category_desc"`
	AverageGrade        float64 `json:"avg_grade"`
	StartLatLng         LatLng  `json:"start_latlng"`
	EndLatLng           LatLng  `json:"end_latlng"`
	ElevationDifference float64 `json:"elev_difference"`
	Distance            float64 `json:"distance"`
	Points              string  `json:"points"` // encoded polyline
	Starred             bool    `json:"starred"`
}

// Explore returns up to ten popular segments within the given bounds.
func (s *SegmentsService) Explore(ctx context.Context, bounds Bounds, opt *ExploreOptions) ([]*ExplorerSegment, error) {
	q := url.Values{}
	q.Set("bounds", bounds.encode())
	if opt != nil {
		if opt.ActivityType != "" {
			q.Set("activity_type", opt.ActivityType)
		}
		if opt.MinCat > 0 {
			q.Set("min_cat", strconv.Itoa(opt.MinCat))
		}
		if opt.MaxCat > 0 {
			q.Set("max_cat", strconv.Itoa(opt.MaxCat))
		}
	}

	var resp struct {
		Segments []*ExplorerSegment `json:"segments"`
	}
	if err := s.client.do(ctx, "GET", "segments/explore", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Segments, nil
}
