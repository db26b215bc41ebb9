package externalevent

import (
	"strconv"
	"time"

	"github.com/eventport/organizer-console/internal/upstream"
)

const (
	dateLayout     = "2006/01/02"
	dateTimeLayout = "2006/01/02 15:04"
)

// BuildRequest assembles the wire-level payload from the submitted form
// values, plus the optional thumbnail attachment. It is pure and never
// fails: malformed hour/minute strings compose into an invalid
// timestamp that is forwarded as-is, and the platform rejects it
// through its own validation. Date ordering (start before end) is a
// platform-side concern for the same reason.
func BuildRequest(values FormValues) (upstream.ExternalEventRequest, *upstream.ExternalEventUpfile) {
	req := upstream.ExternalEventRequest{
		Title:               values.Title,
		Detail:              values.Detail,
		EventPlace:          values.EventPlace,
		AdditionalField1:    values.AdditionalField1,
		AdditionalField2:    values.AdditionalField2,
		AdditionalField3:    values.AdditionalField3,
		AdditionalField4:    values.AdditionalField4,
		AdditionalField5:    values.AdditionalField5,
		StartDate:           composeDateTime(values.StartDate, values.StartHour, values.StartMinutes),
		EndDate:             composeDateTime(values.EndDate, values.EndHour, values.EndMinutes),
		DisplayStartDate:    composeDateTime(values.DisplayStartDate, values.DisplayStartHour, values.DisplayStartMinutes),
		DisplayEndDate:      composeDateTime(values.DisplayEndDate, values.DisplayEndHour, values.DisplayEndMinutes),
		Category:            buildCategory(values.Category),
		AdvanceRegistration: values.AdvanceRegistration,
		Visibility:          values.Visibility,
		PointGranting:       values.PointGranting,
		PointAccumulation:   values.PointAccumulation,
		PointSetting:        values.PointSetting,
		// Explicitly nullable: stays null when no expiration date is set.
		PointExpirationDate: buildPointExpiration(values.PointExpirationDate),
	}

	// Unset optional scalars are omitted from the payload entirely, so
	// the platform can tell "not set" from "set to zero".
	if values.RelatedExternalEventID != 0 {
		related := values.RelatedExternalEventID
		req.RelatedExternalEventID = &related
	}
	if values.PointFixedValue != 0 {
		fixed := values.PointFixedValue
		req.PointFixedValue = &fixed
	}

	// An update without a newly selected thumbnail must not overwrite
	// the stored one, so no upfile is emitted in that case.
	if values.Thumbnail != nil {
		return req, values.Thumbnail
	}
	return req, nil
}

// composeDateTime joins a calendar date with separate hour/minute
// strings and resolves them as a local wall-clock time. The strings are
// not validated: anything that fails to parse yields the zero time's
// Unix value, forwarded to the platform unchanged.
func composeDateTime(day time.Time, hour, minute string) int64 {
	raw := day.Format(dateLayout) + " " + hour + ":" + minute
	parsed, err := time.ParseInLocation(dateTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}.Unix()
	}
	return parsed.Unix()
}

// buildCategory encodes the category selector. A non-empty selector is
// parsed as an integer and wrapped in a one-element list; whether it
// names a real category is the platform's call.
func buildCategory(selector string) []int {
	if selector == "" {
		return []int{}
	}
	id, _ := strconv.Atoi(selector)
	return []int{id}
}

// buildPointExpiration converts the optional expiration date to a
// date-only timestamp (local midnight).
func buildPointExpiration(day *time.Time) *int64 {
	if day == nil {
		return nil
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	ts := midnight.Unix()
	return &ts
}
