package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// StreamsService handles the raw data series recorded with activities,
// segment efforts, segments, and routes.
type StreamsService struct {
	service
}

// StreamType identifies one data series of a stream set.
type StreamType string

// Stream types accepted by the streams endpoints.
const (
	StreamTypeTime           StreamType = "time"
	StreamTypeDistance       StreamType = "distance"
	StreamTypeLatLng         StreamType = "latlng"
	StreamTypeAltitude       StreamType = "altitude"
	StreamTypeVelocitySmooth StreamType = "velocity_smooth"
	StreamTypeHeartrate      StreamType = "heartrate"
	StreamTypeCadence        StreamType = "cadence"
	StreamTypeWatts          StreamType = "watts"
	StreamTypeTemp           StreamType = "temp"
	StreamTypeMoving         StreamType = "moving"
	StreamTypeGradeSmooth    StreamType = "grade_smooth"
)

// Stream carries the metadata shared by every data series.
type Stream struct {
	SeriesType   string `json:"series_type"` // "time" or "distance"
	OriginalSize int    `json:"original_size"`
	Resolution   string `json:"resolution"`
}

// IntegerStream is a series of integer samples.
type IntegerStream struct {
	Stream
	Data []int `json:"data"`
}

// DecimalStream is a series of floating-point samples.
type DecimalStream struct {
	Stream
	Data []float64 `json:"data"`
}

// BooleanStream is a series of boolean samples.
type BooleanStream struct {
	Stream
	Data []bool `json:"data"`
}

// LocationStream is a series of coordinate samples.
type LocationStream struct {
	Stream
	Data []LatLng `json:"data"`
}

// StreamSet bundles the data series of one activity, effort, segment, or
// route. Series the server did not record are nil.
type StreamSet struct {
	Time           *IntegerStream  `json:"time,omitempty"`
	Distance       *DecimalStream  `json:"distance,omitempty"`
	Location       *LocationStream `json:"latlng,omitempty"`
	Altitude       *DecimalStream  `json:"altitude,omitempty"`
	VelocitySmooth *DecimalStream  `json:"velocity_smooth,omitempty"`
	Heartrate      *IntegerStream  `json:"heartrate,omitempty"`
	Cadence        *IntegerStream  `json:"cadence,omitempty"`
	Watts          *IntegerStream  `json:"watts,omitempty"`
	Temperature    *IntegerStream  `json:"temp,omitempty"`
	Moving         *BooleanStream  `json:"moving,omitempty"`
	GradeSmooth    *DecimalStream  `json:"grade_smooth,omitempty"`
}

func streamQuery(types []StreamType, resolution string) url.Values {
	keys := make([]string, len(types))
	for i, t := range types {
		keys[i] = string(t)
	}
	q := url.Values{}
	q.Set("keys", strings.Join(keys, ","))
	q.Set("key_by_type", "true")
	if resolution != "" {
		q.Set("resolution", resolution)
	}
	return q
}

// ActivityStreams returns the requested series of an activity. Resolution is
// "low", "medium", "high", or empty for all points.
func (s *StreamsService) ActivityStreams(ctx context.Context, activityID int64, types []StreamType, resolution string) (*StreamSet, error) {
	if activityID <= 0 {
		return nil, invalidArg("activity id", "must be positive")
	}
	if len(types) == 0 {
		return nil, invalidArg("stream types", "must not be empty")
	}
	set := new(StreamSet)
	if err := s.client.do(ctx, "GET", "activities/"+itoa(activityID)+"/streams", streamQuery(types, resolution), nil, set); err != nil {
		return nil, err
	}
	return set, nil
}

// EffortStreams returns the requested series of a segment effort, cut to the
// effort's slice of the parent activity.
func (s *StreamsService) EffortStreams(ctx context.Context, effortID int64, types []StreamType, resolution string) (*StreamSet, error) {
	if effortID <= 0 {
		return nil, invalidArg("effort id", "must be positive")
	}
	if len(types) == 0 {
		return nil, invalidArg("stream types", "must not be empty")
	}
	set := new(StreamSet)
	if err := s.client.do(ctx, "GET", "segment_efforts/"+itoa(effortID)+"/streams", streamQuery(types, resolution), nil, set); err != nil {
		return nil, err
	}
	return set, nil
}

// SegmentStreams returns the requested series of a segment. Segments only
// carry distance, altitude, and latlng.
func (s *StreamsService) SegmentStreams(ctx context.Context, segmentID int64, types []StreamType, resolution string) (*StreamSet, error) {
	if segmentID <= 0 {
		return nil, invalidArg("segment id", "must be positive")
	}
	if len(types) == 0 {
		return nil, invalidArg("stream types", "must not be empty")
	}
	set := new(StreamSet)
	if err := s.client.do(ctx, "GET", "segments/"+itoa(segmentID)+"/streams", streamQuery(types, resolution), nil, set); err != nil {
		return nil, err
	}
	return set, nil
}

// RouteStreams returns the series of a route. The route endpoint ignores key
// selection and always responds with every recorded series.
func (s *StreamsService) RouteStreams(ctx context.Context, routeID int64) (*StreamSet, error) {
	if routeID <= 0 {
		return nil, invalidArg("route id", "must be positive")
	}

	// Route streams come back as a flat list tagged by type rather than the
	// keyed object the other stream endpoints return.
	var raw []struct {
		Type StreamType      `json:"type"`
		Data json.RawMessage `json:"data"`
		Stream
	}
	if err := s.client.do(ctx, "GET", "routes/"+itoa(routeID)+"/streams", nil, nil, &raw); err != nil {
		return nil, err
	}

	set := new(StreamSet)
	for _, r := range raw {
		var err error
		switch r.Type {
		case StreamTypeTime:
			set.Time, err = decodeIntegerStream(r.Stream, r.Data)
		case StreamTypeDistance:
			set.Distance, err = decodeDecimalStream(r.Stream, r.Data)
		case StreamTypeLatLng:
			set.Location, err = decodeLocationStream(r.Stream, r.Data)
		case StreamTypeAltitude:
			set.Altitude, err = decodeDecimalStream(r.Stream, r.Data)
		}
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}

func decodeIntegerStream(meta Stream, data json.RawMessage) (*IntegerStream, error) {
	s := &IntegerStream{Stream: meta}
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return s, nil
}

func decodeDecimalStream(meta Stream, data json.RawMessage) (*DecimalStream, error) {
	s := &DecimalStream{Stream: meta}
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return s, nil
}

func decodeLocationStream(meta Stream, data json.RawMessage) (*LocationStream, error) {
	s := &LocationStream{Stream: meta}
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return s, nil
}
