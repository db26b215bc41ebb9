// Package externalevent implements the register/update pipeline of the
// external-event screen: form-to-request normalization, classification
// of upstream failures into dialog content, and the submission
// orchestration around one round trip to the platform API.
package externalevent

import (
	"time"

	"github.com/eventport/organizer-console/internal/upstream"
)

// FormValues is the editable state of the screen as submitted by the
// frontend. Calendar dates arrive as full timestamps from the date
// picker; the clock portion lives in the separate hour/minute strings.
// Zero values on the optional scalars mean "not set".
type FormValues struct {
	Title            string `json:"title"`
	Detail           string `json:"detail"`
	EventPlace       string `json:"eventPlace"`
	AdditionalField1 string `json:"additionalField1"`
	AdditionalField2 string `json:"additionalField2"`
	AdditionalField3 string `json:"additionalField3"`
	AdditionalField4 string `json:"additionalField4"`
	AdditionalField5 string `json:"additionalField5"`

	StartDate    time.Time `json:"startDate"`
	StartHour    string    `json:"startHour"`
	StartMinutes string    `json:"startMinutes"`

	EndDate    time.Time `json:"endDate"`
	EndHour    string    `json:"endHour"`
	EndMinutes string    `json:"endMinutes"`

	DisplayStartDate    time.Time `json:"displayStartDate"`
	DisplayStartHour    string    `json:"displayStartHour"`
	DisplayStartMinutes string    `json:"displayStartMinutes"`

	DisplayEndDate    time.Time `json:"displayEndDate"`
	DisplayEndHour    string    `json:"displayEndHour"`
	DisplayEndMinutes string    `json:"displayEndMinutes"`

	PointExpirationDate *time.Time `json:"pointExpirationDate"`

	Category               string `json:"category"`
	AdvanceRegistration    bool   `json:"advanceRegistration"`
	Visibility             int    `json:"visibility"`
	RelatedExternalEventID int64  `json:"relatedExternalEventId"`
	PointGranting          int    `json:"pointGranting"`
	PointAccumulation      int    `json:"pointAccumulation"`
	PointSetting           int    `json:"pointSetting"`
	PointFixedValue        int64  `json:"pointFixedValue"`

	// Thumbnail is set only when a new file was selected in this
	// submission; it is carried out of the multipart body, not JSON.
	Thumbnail *upstream.ExternalEventUpfile `json:"-"`
}

// DialogContent is the transient error payload the frontend renders in
// its dialog after a failed submission. Message may span multiple
// lines, one per violated field.
type DialogContent struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Mode selects between registering a new external event and updating an
// existing one. It is derived once from the presence of a serial ID at
// screen entry and never changes for the lifetime of the screen.
type Mode int

const (
	ModeRegister Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "register"
}
