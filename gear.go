package strava

import (
	"context"
	"strings"
)

// GearService handles bikes and shoes.
type GearService struct {
	service
}

// Gear is a bike or a pair of shoes. Gear ids are prefixed strings: "b" for
// bikes, "g" for shoes.
type Gear struct {
	ID            string  `json:"id"`
	ResourceState int     `json:"resource_state"`
	Primary       bool    `json:"primary"`
	Name          string  `json:"name"`
	Distance      float64 `json:"distance"` // meters
	BrandName     string  `json:"brand_name"`
	ModelName     string  `json:"model_name"`
	FrameType     int     `json:"frame_type"` // bikes only
	Description   string  `json:"description"`
}

// Get returns a piece of gear owned by the authenticated athlete.
func (s *GearService) Get(ctx context.Context, id string) (*Gear, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalidArg("gear id", "must not be empty")
	}
	gear := new(Gear)
	if err := s.client.do(ctx, "GET", "gear/"+id, nil, nil, gear); err != nil {
		return nil, err
	}
	return gear, nil
}
