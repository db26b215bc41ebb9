package externalevent

import (
	"slices"
	"strings"

	"github.com/eventport/organizer-console/internal/i18n"
	"github.com/eventport/organizer-console/internal/upstream"
)

// Platform messages for the two related-event conflict cases. These are
// matched on the exact message text ahead of the generic per-field
// branch because they are more specific than any field violation that
// may accompany them.
var conflictRules = []struct {
	messages []string
	key      string
}{
	{
		messages: []string{
			"Related external event not exist",
			"related_external_event_id is invalid",
		},
		key: "organizer:external-event/not-found",
	},
	{
		messages: []string{
			"Related external event has depended on other external event",
		},
		key: "organizer:external-event/related-another-external-event",
	},
}

// upfile violation codes. The same field name carries two distinct
// codes, each with its own message.
const (
	upfileNotValidMsg = "upfile is not valid type"
	upfileTooBigMsg   = "upfile is too big, max file size is under 50MB"
)

// fieldRules maps violation field names to message keys. The dialog
// lists violated fields in this order, not the order the platform
// reported them in. The "display_end_date " entry carries a trailing
// space to match the platform contract literally.
var fieldRules = []struct {
	param string
	key   string
}{
	{param: "title", key: "organizer:external-event-register-update/title-invalid"},
	{param: "detail", key: "organizer:external-event-register-update/detail-invalid"},
	{param: "event_place", key: "organizer:external-event-register-update/event-place-invalid"},
	{param: "additional_field_1", key: "organizer:external-event-register-update/additional-field-1-invalid"},
	{param: "additional_field_2", key: "organizer:external-event-register-update/additional-field-2-invalid"},
	{param: "additional_field_3", key: "organizer:external-event-register-update/additional-field-3-invalid"},
	{param: "additional_field_4", key: "organizer:external-event-register-update/additional-field-4-invalid"},
	{param: "additional_field_5", key: "organizer:external-event-register-update/additional-field-5-invalid"},
	{param: "upfile"}, // special-cased on the violation code
	{param: "start_date", key: "organizer:external-event-register-update/start-date-invalid"},
	{param: "end_date", key: "organizer:external-event-register-update/end-date-invalid"},
	{param: "display_start_date", key: "organizer:external-event-register-update/display_start_date-invalid"},
	{param: "display_end_date ", key: "organizer:external-event-register-update/display_end_date-invalid"},
	{param: "category", key: "organizer:external-event-register-update/category-invalid"},
	{param: "advance_registration", key: "organizer:external-event-register-update/advance_registration-invalid"},
	{param: "visibility", key: "organizer:external-event-register-update/visibility-invalid"},
	{param: "related_external_event_id", key: "organizer:external-event-register-update/related_external_event_id-invalid"},
	{param: "point_granting", key: "organizer:external-event-register-update/point_granting-invalid"},
	{param: "point_accumulation", key: "organizer:external-event-register-update/point_accumulation-invalid"},
	{param: "point_setting", key: "organizer:external-event-register-update/point_setting-invalid"},
	{param: "point_fixed_value", key: "organizer:external-event-register-update/point_fixed_value-invalid"},
	{param: "point_expiration_date", key: "organizer:external-event-register-update/point_expiration_date-invalid"},
}

// ClassifyValidation maps one upstream validation failure to the dialog
// the frontend shows. Rules are evaluated in order, first match wins:
// exact conflict messages, then the per-field table, then a raw join of
// whatever messages came back. Violations on field names outside the
// table are dropped, so a dialog with an empty body is possible.
func ClassifyValidation(e *upstream.ValidationError, t i18n.Localizer) DialogContent {
	title := t("common:dialog-error")

	for _, rule := range conflictRules {
		if slices.Contains(rule.messages, e.Message) {
			return DialogContent{Title: title, Message: t(rule.key)}
		}
	}

	if !hasFieldList(e.Violations) {
		return DialogContent{Title: title, Message: joinRawMessages(e.Violations)}
	}

	params := make(map[string]bool, len(e.Violations))
	msgs := make(map[string]bool, len(e.Violations))
	for _, violation := range e.Violations {
		params[violation.Param] = true
		msgs[violation.Msg] = true
	}

	var lines []string
	for _, rule := range fieldRules {
		if !params[rule.param] {
			continue
		}
		if rule.param == "upfile" {
			if msgs[upfileNotValidMsg] {
				lines = append(lines, t("common:upfile-not-valid"))
			}
			if msgs[upfileTooBigMsg] {
				lines = append(lines, t("common:upfile-too-big-max-50MB"))
			}
			continue
		}
		lines = append(lines, t(rule.key))
	}

	return DialogContent{Title: title, Message: strings.Join(lines, "\n")}
}

// hasFieldList reports whether the violations carry field names at all.
// Without one there is nothing to match the field table against and the
// raw messages are surfaced instead.
func hasFieldList(violations []upstream.Violation) bool {
	for _, violation := range violations {
		if violation.Param != "" {
			return true
		}
	}
	return false
}

func joinRawMessages(violations []upstream.Violation) string {
	msgs := make([]string, 0, len(violations))
	for _, violation := range violations {
		msgs = append(msgs, violation.Msg)
	}
	return strings.Join(msgs, "\n")
}
