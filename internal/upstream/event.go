package upstream

import (
	"context"
	"fmt"
)

// EventInfo is the owning event's metadata.
type EventInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate int64  `json:"start_date"`
	EndDate   int64  `json:"end_date"`
}

// EventInfoResult pairs the event metadata with the platform's derived
// "has the event started yet" flag.
type EventInfoResult struct {
	EventInfo     EventInfo `json:"event_info"`
	IsBeforeStart bool      `json:"is_before_start"`
}

// Event fetches the owning event's metadata.
func (c *Client) Event(ctx context.Context, eventID int64) (*EventInfoResult, error) {
	var result EventInfoResult
	path := fmt.Sprintf("/api/organizer/events/%d", eventID)
	if err := c.getJSON(ctx, path, "event", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
