// Package routes holds the console SPA route templates the backend hands
// back to the frontend after a mutation. Placeholders use the same
// :param syntax as the SPA router.
package routes

import "strings"

const (
	// ExternalEventList is the external-event listing under one event.
	ExternalEventList = "/organizer/events/:eventId/external-events"
	// ExternalEventDetail is the detail view of one external event.
	ExternalEventDetail = "/organizer/events/:eventId/external-events/:serialId"
	// Error is the dedicated error surface, parameterized by HTTP status.
	Error = "/organizer/error/:status"
)

// Build substitutes :param placeholders in a route template. Params not
// present in the template are ignored; placeholders without a param are
// left as-is.
func Build(template string, params map[string]string) string {
	path := template
	for key, value := range params {
		path = strings.ReplaceAll(path, ":"+key, value)
	}
	return path
}
