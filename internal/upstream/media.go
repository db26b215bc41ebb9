package upstream

import (
	"context"
	"fmt"
)

type uploadingBody struct {
	Uploading bool `json:"uploading"`
}

// SeminarVideoUploading reports whether the separate seminar-video
// subsystem has an upload in flight for this event. Submissions are
// blocked while this gate is up.
func (c *Client) SeminarVideoUploading(ctx context.Context, eventID int64) (bool, error) {
	var body uploadingBody
	path := fmt.Sprintf("/api/organizer/events/%d/seminar_videos/uploading", eventID)
	if err := c.getJSON(ctx, path, "seminar videos", nil, &body); err != nil {
		return false, err
	}
	return body.Uploading, nil
}
