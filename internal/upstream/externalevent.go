package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
)

// ExternalEventRequest is the wire-level payload for registering or
// updating an external event. Dates are Unix seconds. Optional scalars
// are omitted entirely when unset; point_expiration_date is the one
// explicitly nullable field and is always serialized.
type ExternalEventRequest struct {
	Title                  string `json:"title"`
	Detail                 string `json:"detail"`
	EventPlace             string `json:"event_place"`
	AdditionalField1       string `json:"additional_field_1"`
	AdditionalField2       string `json:"additional_field_2"`
	AdditionalField3       string `json:"additional_field_3"`
	AdditionalField4       string `json:"additional_field_4"`
	AdditionalField5       string `json:"additional_field_5"`
	StartDate              int64  `json:"start_date"`
	EndDate                int64  `json:"end_date"`
	DisplayStartDate       int64  `json:"display_start_date"`
	DisplayEndDate         int64  `json:"display_end_date"`
	Category               []int  `json:"category"`
	AdvanceRegistration    bool   `json:"advance_registration"`
	Visibility             int    `json:"visibility"`
	RelatedExternalEventID *int64 `json:"related_external_event_id,omitempty"`
	PointGranting          int    `json:"point_granting"`
	PointAccumulation      int    `json:"point_accumulation"`
	PointSetting           int    `json:"point_setting"`
	PointFixedValue        *int64 `json:"point_fixed_value,omitempty"`
	PointExpirationDate    *int64 `json:"point_expiration_date"`
}

// ExternalEventUpfile is a freshly selected thumbnail to attach to a
// register or update call. It never references an already stored file;
// omitting it on update leaves the stored thumbnail untouched.
type ExternalEventUpfile struct {
	FileName string
	Content  []byte
}

// ExternalEventDetail is the read model of a stored external event.
type ExternalEventDetail struct {
	SerialID     int64  `json:"serial_id"`
	ThumbnailURL string `json:"thumbnail_url"`
	ExternalEventRequest
}

// ExternalEvent fetches the detail record of one external event.
func (c *Client) ExternalEvent(ctx context.Context, eventID, serialID int64) (*ExternalEventDetail, error) {
	var detail ExternalEventDetail
	path := fmt.Sprintf("/api/organizer/events/%d/external_events/%d", eventID, serialID)
	if err := c.getJSON(ctx, path, "external event", nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// RegisterExternalEvent creates a new external event under the given
// event. The upfile is optional.
func (c *Client) RegisterExternalEvent(ctx context.Context, eventID int64, req ExternalEventRequest, upfile *ExternalEventUpfile) error {
	path := fmt.Sprintf("/api/organizer/events/%d/external_events", eventID)
	return c.mutateExternalEvent(ctx, http.MethodPost, path, req, upfile)
}

// UpdateExternalEvent overwrites an existing external event. The upfile
// is optional; when absent the stored thumbnail is kept.
func (c *Client) UpdateExternalEvent(ctx context.Context, eventID, serialID int64, req ExternalEventRequest, upfile *ExternalEventUpfile) error {
	path := fmt.Sprintf("/api/organizer/events/%d/external_events/%d", eventID, serialID)
	return c.mutateExternalEvent(ctx, http.MethodPut, path, req, upfile)
}

// mutateExternalEvent sends the request as plain JSON, or as multipart
// form data with a "request" JSON part and an "upfile" file part when a
// thumbnail is attached.
func (c *Client) mutateExternalEvent(ctx context.Context, method, path string, req ExternalEventRequest, upfile *ExternalEventUpfile) error {
	if upfile == nil {
		return c.sendJSON(ctx, method, path, "external event", req, nil)
	}

	encoded, err := json.Marshal(req)
	if err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("marshal request: %w", err)}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("request", string(encoded)); err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("write request part: %w", err)}
	}
	part, err := writer.CreateFormFile("upfile", upfile.FileName)
	if err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("create upfile part: %w", err)}
	}
	if _, err := part.Write(upfile.Content); err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("write upfile part: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("close multipart body: %w", err)}
	}

	return c.do(ctx, method, path, "external event", nil, &body, writer.FormDataContentType(), nil)
}
