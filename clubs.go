package strava

import "context"

// ClubsService handles clubs and their member and activity feeds.
type ClubsService struct {
	service
}

// Club is a Strava club.
type Club struct {
	ID              int64  `json:"id"`
	ResourceState   int    `json:"resource_state"`
	Name            string `json:"name"`
	ProfileMedium   string `json:"profile_medium"`
	Profile         string `json:"profile"`
	CoverPhoto      string `json:"cover_photo"`
	CoverPhotoSmall string `json:"cover_photo_small"`
	SportType       string `json:"sport_type"` // "cycling", "running", "triathlon", "other"
	City            string `json:"city"`
	State           string `json:"state"`
	Country         string `json:"country"`
	Private         bool   `json:"private"`
	MemberCount     int    `json:"member_count"`
	Featured        bool   `json:"featured"`
	Verified        bool   `json:"verified"`
	URL             string `json:"url"`
	Membership      string `json:"membership"` // "member" or "pending", authenticated athlete only
	Admin           bool   `json:"admin"`
	Owner           bool   `json:"owner"`
	FollowingCount  int    `json:"following_count"`
	Description     string `json:"description"`
	ClubType        string `json:"club_type"`
}

// ClubMember is an athlete as seen through a club roster. Strava strips the
// profile down to names plus the membership flags.
type ClubMember struct {
	ResourceState int    `json:"resource_state"`
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	Membership    string `json:"membership"`
	Admin         bool   `json:"admin"`
	Owner         bool   `json:"owner"`
}

// Get returns a club by id.
func (s *ClubsService) Get(ctx context.Context, id int64) (*Club, error) {
	if id <= 0 {
		return nil, invalidArg("club id", "must be positive")
	}
	club := new(Club)
	if err := s.client.do(ctx, "GET", "clubs/"+itoa(id), nil, nil, club); err != nil {
		return nil, err
	}
	return club, nil
}

// ListJoined returns the clubs the authenticated athlete belongs to.
func (s *ClubsService) ListJoined(ctx context.Context, opt *ListOptions) ([]*Club, error) {
	var clubs []*Club
	if err := s.client.do(ctx, "GET", "athlete/clubs", opt.values(), nil, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// ListMembers returns a club's roster.
func (s *ClubsService) ListMembers(ctx context.Context, id int64, opt *ListOptions) ([]*ClubMember, error) {
	if id <= 0 {
		return nil, invalidArg("club id", "must be positive")
	}
	var members []*ClubMember
	if err := s.client.do(ctx, "GET", "clubs/"+itoa(id)+"/members", opt.values(), nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ListAdmins returns a club's administrators.
func (s *ClubsService) ListAdmins(ctx context.Context, id int64, opt *ListOptions) ([]*ClubMember, error) {
	if id <= 0 {
		return nil, invalidArg("club id", "must be positive")
	}
	var admins []*ClubMember
	if err := s.client.do(ctx, "GET", "clubs/"+itoa(id)+"/admins", opt.values(), nil, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// ClubMembershipResponse reports the outcome of a join or leave request.
type ClubMembershipResponse struct {
	Success    bool   `json:"success"`
	Active     bool   `json:"active"`
	Membership string `json:"membership"` // "member", or "pending" for private clubs
}

// Join requests membership of a club for the authenticated athlete. Private
// clubs answer with a pending membership until an admin approves it.
func (s *ClubsService) Join(ctx context.Context, id int64) (*ClubMembershipResponse, error) {
	if id <= 0 {
		return nil, invalidArg("club id", "must be positive")
	}
	res := new(ClubMembershipResponse)
	if err := s.client.do(ctx, "POST", "clubs/"+itoa(id)+"/join", nil, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Leave removes the authenticated athlete from a club.
func (s *ClubsService) Leave(ctx context.Context, id int64) (*ClubMembershipResponse, error) {
	if id <= 0 {
		return nil, invalidArg("club id", "must be positive")
	}
	res := new(ClubMembershipResponse)
	if err := s.client.do(ctx, "POST", "clubs/"+itoa(id)+"/leave", nil, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListActivities returns recent activities by club members. Athletes who hide
// their activities are omitted.
func (s *ClubsService) ListActivities(ctx context.Context, id int64, opt *ListOptions) ([]*Activity, error) {
	if id <= 0 {
		return nil, invalidArg("club id", "must be positive")
	}
	var activities []*Activity
	if err := s.client.do(ctx, "GET", "clubs/"+itoa(id)+"/activities", opt.values(), nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
