package strava

import "context"

// RoutesService handles athlete-drawn routes and their GPX/TCX exports.
type RoutesService struct {
	service
}

// Route types.
const (
	RouteTypeRide = 1
	RouteTypeRun  = 2
)

// Route sub-types.
const (
	RouteSubTypeRoad         = 1
	RouteSubTypeMountainBike = 2
	RouteSubTypeCross        = 3
	RouteSubTypeTrail        = 4
	RouteSubTypeMixed        = 5
)

// Route is a route drawn by an athlete.
type Route struct {
	ID                  int64      `json:"id"`
	ResourceState       int        `json:"resource_state"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	Athlete             *Athlete   `json:"athlete,omitempty"`
	Distance            float64    `json:"distance"`
	ElevationGain       float64    `json:"elevation_gain"`
	Map                 *Map       `json:"map,omitempty"`
	Type                int        `json:"type"`
	SubType             int        `json:"sub_type"`
	Private             bool       `json:"private"`
	Starred             bool       `json:"starred"`
	Timestamp           int64      `json:"timestamp"`
	EstimatedMovingTime int        `json:"estimated_moving_time"`
	Segments            []*Segment `json:"segments,omitempty"`
}

// Get returns a route. Private routes require read_all.
func (s *RoutesService) Get(ctx context.Context, id int64) (*Route, error) {
	if id <= 0 {
		return nil, invalidArg("route id", "must be positive")
	}
	route := new(Route)
	if err := s.client.do(ctx, "GET", "routes/"+itoa(id), nil, nil, route); err != nil {
		return nil, err
	}
	return route, nil
}

// ListByAthlete returns the routes created by an athlete.
func (s *RoutesService) ListByAthlete(ctx context.Context, athleteID int64, opt *ListOptions) ([]*Route, error) {
	if athleteID <= 0 {
		return nil, invalidArg("athlete id", "must be positive")
	}
	var routes []*Route
	if err := s.client.do(ctx, "GET", "athletes/"+itoa(athleteID)+"/routes", opt.values(), nil, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// ExportGPX returns the route as a GPX document.
func (s *RoutesService) ExportGPX(ctx context.Context, id int64) ([]byte, error) {
	if id <= 0 {
		return nil, invalidArg("route id", "must be positive")
	}
	return s.client.doRaw(ctx, "GET", "routes/"+itoa(id)+"/export_gpx", nil)
}

// ExportTCX returns the route as a TCX course file.
func (s *RoutesService) ExportTCX(ctx context.Context, id int64) ([]byte, error) {
	if id <= 0 {
		return nil, invalidArg("route id", "must be positive")
	}
	return s.client.doRaw(ctx, "GET", "routes/"+itoa(id)+"/export_tcx", nil)
}
