package strava

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ActivitiesService handles activity resources: fetching, listing, manual
// creation, updates, and the activity sub-collections (comments, kudoers,
// laps, zones).
type ActivitiesService struct {
	service
}

// Activity is an athlete activity. Summary representations leave the
// detailed-only fields (description, calories, splits, laps, segment efforts)
// at their zero values.
type Activity struct {
	ID                   int64            `json:"id"`
	ResourceState        int              `json:"resource_state"`
	ExternalID           string           `json:"external_id"`
	UploadID             int64            `json:"upload_id"`
	Athlete              *Athlete         `json:"athlete,omitempty"`
	Name                 string           `json:"name"`
	Distance             float64          `json:"distance"`
	MovingTime           int              `json:"moving_time"`
	ElapsedTime          int              `json:"elapsed_time"`
	TotalElevationGain   float64          `json:"total_elevation_gain"`
	ElevationHigh        float64          `json:"elev_high"`
	ElevationLow         float64          `json:"elev_low"`
	Type                 ActivityType     `json:"type"`
	StartDate            time.Time        `json:"start_date"`
	StartDateLocal       time.Time        `json:"start_date_local"`
	Timezone             string           `json:"timezone"`
	StartLatLng          LatLng           `json:"start_latlng"`
	EndLatLng            LatLng           `json:"end_latlng"`
	AchievementCount     int              `json:"achievement_count"`
	KudosCount           int              `json:"kudos_count"`
	CommentCount         int              `json:"comment_count"`
	AthleteCount         int              `json:"athlete_count"`
	PhotoCount           int              `json:"photo_count"`
	TotalPhotoCount      int              `json:"total_photo_count"`
	Map                  *Map             `json:"map,omitempty"`
	Trainer              bool             `json:"trainer"`
	Commute              bool             `json:"commute"`
	Manual               bool             `json:"manual"`
	Private              bool             `json:"private"`
	Flagged              bool             `json:"flagged"`
	WorkoutType          int              `json:"workout_type"`
	GearID               string           `json:"gear_id"`
	Gear                 *Gear            `json:"gear,omitempty"`
	AverageSpeed         float64          `json:"average_speed"`
	MaxSpeed             float64          `json:"max_speed"`
	AverageCadence       float64          `json:"average_cadence"`
	AverageTemp          float64          `json:"average_temp"`
	AverageWatts         float64          `json:"average_watts"`
	WeightedAverageWatts int              `json:"weighted_average_watts"`
	MaxWatts             int              `json:"max_watts"`
	Kilojoules           float64          `json:"kilojoules"`
	DeviceWatts          bool             `json:"device_watts"`
	HasHeartrate         bool             `json:"has_heartrate"`
	AverageHeartrate     float64          `json:"average_heartrate"`
	MaxHeartrate         float64          `json:"max_heartrate"`
	SufferScore          float64          `json:"suffer_score"`
	Calories             float64          `json:"calories"`
	Description          string           `json:"description"`
	SegmentEfforts       []*SegmentEffort `json:"segment_efforts,omitempty"`
	SplitsMetric         []*Split         `json:"splits_metric,omitempty"`
	SplitsStandard       []*Split         `json:"splits_standard,omitempty"`
	Laps                 []*Lap           `json:"laps,omitempty"`
	BestEfforts          []*SegmentEffort `json:"best_efforts,omitempty"`
	Photos               *PhotosSummary   `json:"photos,omitempty"`
	DeviceName           string           `json:"device_name"`
	EmbedToken           string           `json:"embed_token"`
}

// Lap is one lap of an activity.
type Lap struct {
	ID                 int64     `json:"id"`
	ResourceState      int       `json:"resource_state"`
	Name               string    `json:"name"`
	Activity           *Activity `json:"activity,omitempty"`
	Athlete            *Athlete  `json:"athlete,omitempty"`
	ElapsedTime        int       `json:"elapsed_time"`
	MovingTime         int       `json:"moving_time"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Distance           float64   `json:"distance"`
	StartIndex         int       `json:"start_index"`
	EndIndex           int       `json:"end_index"`
	TotalElevationGain float64   `json:"total_elevation_gain"`
	AverageSpeed       float64   `json:"average_speed"`
	MaxSpeed           float64   `json:"max_speed"`
	AverageCadence     float64   `json:"average_cadence"`
	AverageWatts       float64   `json:"average_watts"`
	DeviceWatts        bool      `json:"device_watts"`
	AverageHeartrate   float64   `json:"average_heartrate"`
	MaxHeartrate       float64   `json:"max_heartrate"`
	LapIndex           int       `json:"lap_index"`
	Split              int       `json:"split"`
	PaceZone           int       `json:"pace_zone"`
}

// Split is a per-kilometer or per-mile split of an activity.
type Split struct {
	Distance            float64 `json:"distance"`
	ElapsedTime         int     `json:"elapsed_time"`
	ElevationDifference float64 `json:"elevation_difference"`
	MovingTime          int     `json:"moving_time"`
	Split               int     `json:"split"`
	AverageSpeed        float64 `json:"average_speed"`
	PaceZone            int     `json:"pace_zone"`
}

// PhotosSummary describes the photos attached to an activity.
type PhotosSummary struct {
	Count   int                 `json:"count"`
	Primary *PhotosSummaryPhoto `json:"primary,omitempty"`
}

// PhotosSummaryPhoto is the primary photo of an activity.
type PhotosSummaryPhoto struct {
	ID       int64             `json:"id"`
	UniqueID string            `json:"unique_id"`
	Source   int               `json:"source"`
	URLs     map[string]string `json:"urls"`
}

// Comment is a comment on an activity.
type Comment struct {
	ID            int64     `json:"id"`
	ResourceState int       `json:"resource_state"`
	ActivityID    int64     `json:"activity_id"`
	Text          string    `json:"text"`
	Athlete       *Athlete  `json:"athlete,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ActivityZone is a heart-rate or power distribution over an activity.
type ActivityZone struct {
	Score               float64       `json:"score"`
	DistributionBuckets []*ZoneBucket `json:"distribution_buckets"`
	Type                string        `json:"type"` // "heartrate" or "power"
	SensorBased         bool          `json:"sensor_based"`
	Points              float64       `json:"points"`
	CustomZones         bool          `json:"custom_zones"`
	Max                 int           `json:"max"`
}

// ZoneBucket is one bucket of a zone distribution: time spent between Min and
// Max sensor values.
type ZoneBucket struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Time int `json:"time"` // seconds
}

// GetActivityOptions tunes a single-activity fetch.
type GetActivityOptions struct {
	// IncludeAllEfforts includes every segment effort in the response instead
	// of only the important ones.
	IncludeAllEfforts bool
}

// Get returns the activity with the given id. Activities visible to the
// authenticated athlete require activity:read; private ones require
// activity:read_all.
func (s *ActivitiesService) Get(ctx context.Context, id int64, opt *GetActivityOptions) (*Activity, error) {
	if id <= 0 {
		return nil, invalidArg("activity id", "must be positive")
	}
	q := url.Values{}
	if opt != nil && opt.IncludeAllEfforts {
		q.Set("include_all_efforts", "true")
	}
	activity := new(Activity)
	if err := s.client.do(ctx, "GET", "activities/"+itoa(id), q, nil, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// ListActivitiesOptions filters the authenticated athlete's activity feed.
type ListActivitiesOptions struct {
	// Before restricts results to activities started before this time.
	Before time.Time
	// After restricts results to activities started after this time.
	After time.Time

	ListOptions
}

func (o *ListActivitiesOptions) values() url.Values {
	if o == nil {
		return url.Values{}
	}
	q := o.ListOptions.values()
	if !o.Before.IsZero() {
		q.Set("before", strconv.FormatInt(o.Before.Unix(), 10))
	}
	if !o.After.IsZero() {
		q.Set("after", strconv.FormatInt(o.After.Unix(), 10))
	}
	return q
}

// List returns the authenticated athlete's activities, most recent first.
func (s *ActivitiesService) List(ctx context.Context, opt *ListActivitiesOptions) ([]*Activity, error) {
	var activities []*Activity
	if err := s.client.do(ctx, "GET", "athlete/activities", opt.values(), nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// CreateActivityRequest describes a manual activity to record without an
// uploaded file.
type CreateActivityRequest struct {
	Name           string       // required
	Type           ActivityType // required
	StartDateLocal time.Time    // required
	ElapsedTime    int          // required, seconds
	Description    string
	Distance       float64 // meters
	Trainer        bool
	Commute        bool
}

// Create records a manual activity. Requires activity:write.
func (s *ActivitiesService) Create(ctx context.Context, req CreateActivityRequest) (*Activity, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, invalidArg("name", "must not be empty")
	}
	if req.Type == "" {
		return nil, invalidArg("type", "must not be empty")
	}
	if req.StartDateLocal.IsZero() {
		return nil, invalidArg("start date", "must be set")
	}
	if req.ElapsedTime <= 0 {
		return nil, invalidArg("elapsed time", "must be positive")
	}

	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("type", string(req.Type))
	form.Set("start_date_local", req.StartDateLocal.Format(time.RFC3339))
	form.Set("elapsed_time", strconv.Itoa(req.ElapsedTime))
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	if req.Distance > 0 {
		form.Set("distance", strconv.FormatFloat(req.Distance, 'f', -1, 64))
	}
	if req.Trainer {
		form.Set("trainer", "1")
	}
	if req.Commute {
		form.Set("commute", "1")
	}

	activity := new(Activity)
	if err := s.client.do(ctx, "POST", "activities", nil, form, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// UpdateActivityRequest carries a partial activity update. Nil fields are left
// untouched.
type UpdateActivityRequest struct {
	Name        *string
	Type        *ActivityType
	Description *string
	GearID      *string // empty string detaches the gear
	Trainer     *bool
	Commute     *bool
	Private     *bool
}

// Update modifies an existing activity. Requires activity:write.
func (s *ActivitiesService) Update(ctx context.Context, id int64, req UpdateActivityRequest) (*Activity, error) {
	if id <= 0 {
		return nil, invalidArg("activity id", "must be positive")
	}

	form := url.Values{}
	if req.Name != nil {
		form.Set("name", *req.Name)
	}
	if req.Type != nil {
		form.Set("type", string(*req.Type))
	}
	if req.Description != nil {
		form.Set("description", *req.Description)
	}
	if req.GearID != nil {
		form.Set("gear_id", *req.GearID)
	}
	if req.Trainer != nil {
		form.Set("trainer", strconv.FormatBool(*req.Trainer))
	}
	if req.Commute != nil {
		form.Set("commute", strconv.FormatBool(*req.Commute))
	}
	if req.Private != nil {
		form.Set("private", strconv.FormatBool(*req.Private))
	}

	activity := new(Activity)
	if err := s.client.do(ctx, "PUT", "activities/"+itoa(id), nil, form, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// ListComments returns the comments on an activity, oldest first.
func (s *ActivitiesService) ListComments(ctx context.Context, id int64, opt *ListOptions) ([]*Comment, error) {
	if id <= 0 {
		return nil, invalidArg("activity id", "must be positive")
	}
	var comments []*Comment
	if err := s.client.do(ctx, "GET", "activities/"+itoa(id)+"/comments", opt.values(), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ListKudoers returns the athletes who kudoed an activity.
func (s *ActivitiesService) ListKudoers(ctx context.Context, id int64, opt *ListOptions) ([]*Athlete, error) {
	if id <= 0 {
		return nil, invalidArg("activity id", "must be positive")
	}
	var athletes []*Athlete
	if err := s.client.do(ctx, "GET", "activities/"+itoa(id)+"/kudos", opt.values(), nil, &athletes); err != nil {
		return nil, err
	}
	return athletes, nil
}

// ListLaps returns the laps of an activity.
func (s *ActivitiesService) ListLaps(ctx context.Context, id int64) ([]*Lap, error) {
	if id <= 0 {
		return nil, invalidArg("activity id", "must be positive")
	}
	var laps []*Lap
	if err := s.client.do(ctx, "GET", "activities/"+itoa(id)+"/laps", nil, nil, &laps); err != nil {
		return nil, err
	}
	return laps, nil
}

// ListZones returns the heart-rate and power zone distributions of an
// activity. Requires a Summit subscription on the athlete for power zones.
func (s *ActivitiesService) ListZones(ctx context.Context, id int64) ([]*ActivityZone, error) {
	if id <= 0 {
		return nil, invalidArg("activity id", "must be positive")
	}
	var zones []*ActivityZone
	if err := s.client.do(ctx, "GET", "activities/"+itoa(id)+"/zones", nil, nil, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}
