package upstream

import "context"

// Profile is the signed-in organizer's profile.
type Profile struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	OrganizationName string `json:"organization_name"`
}

// Profile fetches the signed-in organizer's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.getJSON(ctx, "/api/organizer/profile", "profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
