package strava

// LatLng is a latitude/longitude pair, encoded by the API as a two-element
// array. Both elements are zero when the location is withheld.
type LatLng [2]float64

// Lat returns the latitude component.
func (l LatLng) Lat() float64 { return l[0] }

// Lng returns the longitude component.
func (l LatLng) Lng() float64 { return l[1] }

// Map holds the polyline renderings of an activity, segment, or route.
// SummaryPolyline is present on summary representations; Polyline only on
// detailed ones.
type Map struct {
	ID              string `json:"id"`
	Polyline        string `json:"polyline,omitempty"`
	SummaryPolyline string `json:"summary_polyline,omitempty"`
	ResourceState   int    `json:"resource_state"`
}

// ActivityType enumerates the activity types understood by the API.
type ActivityType string

// Activity types. The API also accepts types not listed here; unknown values
// pass through unchanged.
const (
	ActivityTypeRide            ActivityType = "Ride"
	ActivityTypeRun             ActivityType = "Run"
	ActivityTypeSwim            ActivityType = "Swim"
	ActivityTypeHike            ActivityType = "Hike"
	ActivityTypeWalk            ActivityType = "Walk"
	ActivityTypeAlpineSki       ActivityType = "AlpineSki"
	ActivityTypeBackcountrySki  ActivityType = "BackcountrySki"
	ActivityTypeCanoeing        ActivityType = "Canoeing"
	ActivityTypeCrossfit        ActivityType = "Crossfit"
	ActivityTypeEBikeRide       ActivityType = "EBikeRide"
	ActivityTypeElliptical      ActivityType = "Elliptical"
	ActivityTypeIceSkate        ActivityType = "IceSkate"
	ActivityTypeInlineSkate     ActivityType = "InlineSkate"
	ActivityTypeKayaking        ActivityType = "Kayaking"
	ActivityTypeKitesurf        ActivityType = "Kitesurf"
	ActivityTypeNordicSki       ActivityType = "NordicSki"
	ActivityTypeRockClimbing    ActivityType = "RockClimbing"
	ActivityTypeRollerSki       ActivityType = "RollerSki"
	ActivityTypeRowing          ActivityType = "Rowing"
	ActivityTypeSnowboard       ActivityType = "Snowboard"
	ActivityTypeSnowshoe        ActivityType = "Snowshoe"
	ActivityTypeStairStepper    ActivityType = "StairStepper"
	ActivityTypeStandUpPaddling ActivityType = "StandUpPaddling"
	ActivityTypeSurfing         ActivityType = "Surfing"
	ActivityTypeVirtualRide     ActivityType = "VirtualRide"
	ActivityTypeWeightTraining  ActivityType = "WeightTraining"
	ActivityTypeWindsurf        ActivityType = "Windsurf"
	ActivityTypeWorkout         ActivityType = "Workout"
	ActivityTypeYoga            ActivityType = "Yoga"
)

// Resource states used across representations: 1 meta, 2 summary, 3 detailed.
const (
	ResourceStateMeta     = 1
	ResourceStateSummary  = 2
	ResourceStateDetailed = 3
)
