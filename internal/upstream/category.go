package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Category type_external_event values.
const (
	CategoryExternalEventInactive = 0
	CategoryExternalEventActive   = 1
)

// Category is one selectable external-event category.
type Category struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	TypeExternalEvent int    `json:"type_external_event"`
}

// CategoryFilter narrows the category listing.
type CategoryFilter struct {
	TypeExternalEvent int
}

type categoryListBody struct {
	Categories []Category `json:"categories"`
}

// Categories lists the categories of an event.
func (c *Client) Categories(ctx context.Context, eventID int64, filter CategoryFilter) ([]Category, error) {
	query := url.Values{}
	query.Set("type_external_event", strconv.Itoa(filter.TypeExternalEvent))

	var body categoryListBody
	path := fmt.Sprintf("/api/organizer/events/%d/categories", eventID)
	if err := c.getJSON(ctx, path, "categories", query, &body); err != nil {
		return nil, err
	}
	return body.Categories, nil
}
