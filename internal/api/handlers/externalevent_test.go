package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventport/organizer-console/internal/auth"
	"github.com/eventport/organizer-console/internal/domain/externalevent"
	"github.com/eventport/organizer-console/internal/upstream"
)

type registerCall struct {
	eventID int64
	req     upstream.ExternalEventRequest
	upfile  *upstream.ExternalEventUpfile
}

type updateCall struct {
	eventID  int64
	serialID int64
	req      upstream.ExternalEventRequest
	upfile   *upstream.ExternalEventUpfile
}

type fakePlatform struct {
	detail        *upstream.ExternalEventDetail
	detailErr     error
	categories    []upstream.Category
	categoriesErr error
	profile       *upstream.Profile
	profileErr    error
	event         *upstream.EventInfoResult
	eventErr      error
	uploading     bool
	uploadingErr  error

	registerErr error
	updateErr   error
	registered  []registerCall
	updated     []updateCall
}

func (f *fakePlatform) ExternalEvent(ctx context.Context, eventID, serialID int64) (*upstream.ExternalEventDetail, error) {
	return f.detail, f.detailErr
}

func (f *fakePlatform) Categories(ctx context.Context, eventID int64, filter upstream.CategoryFilter) ([]upstream.Category, error) {
	return f.categories, f.categoriesErr
}

func (f *fakePlatform) Profile(ctx context.Context) (*upstream.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakePlatform) Event(ctx context.Context, eventID int64) (*upstream.EventInfoResult, error) {
	return f.event, f.eventErr
}

func (f *fakePlatform) SeminarVideoUploading(ctx context.Context, eventID int64) (bool, error) {
	return f.uploading, f.uploadingErr
}

func (f *fakePlatform) RegisterExternalEvent(ctx context.Context, eventID int64, req upstream.ExternalEventRequest, upfile *upstream.ExternalEventUpfile) error {
	f.registered = append(f.registered, registerCall{eventID: eventID, req: req, upfile: upfile})
	return f.registerErr
}

func (f *fakePlatform) UpdateExternalEvent(ctx context.Context, eventID, serialID int64, req upstream.ExternalEventRequest, upfile *upstream.ExternalEventUpfile) error {
	f.updated = append(f.updated, updateCall{eventID: eventID, serialID: serialID, req: req, upfile: upfile})
	return f.updateErr
}

func keyLocalizer(key string) string { return key }

func newHandler(platform *fakePlatform) *ExternalEventHandler {
	return NewExternalEventHandler(platform, keyLocalizer, false, "test")
}

func readRequest(eventID, serialID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/organizer/api/screen", nil)
	req.SetPathValue("eventId", eventID)
	if serialID != "" {
		req.SetPathValue("serialId", serialID)
	}
	return req
}

func submitRequest(t *testing.T, eventID, serialID string, values externalevent.FormValues) *http.Request {
	t.Helper()
	body, err := json.Marshal(values)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/organizer/api/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("eventId", eventID)
	if serialID != "" {
		req.SetPathValue("serialId", serialID)
	}
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) screenResponse {
	t.Helper()
	var resp screenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestReadModel_RegisterMode(t *testing.T) {
	platform := &fakePlatform{
		categories: []upstream.Category{{ID: 3, Name: "Workshop", TypeExternalEvent: 1}},
		profile:    &upstream.Profile{Name: "Organizer"},
		event:      &upstream.EventInfoResult{IsBeforeStart: true},
	}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.ReadModel(rec, readRequest("5", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Model)
	assert.Equal(t, "register", resp.Model.Mode)
	assert.Nil(t, resp.Model.Detail)
	assert.Len(t, resp.Model.Categories, 1)
	assert.True(t, resp.Model.IsBeforeStart)
	assert.Nil(t, resp.Dialog)
}

func TestReadModel_UpdateModeIncludesDetail(t *testing.T) {
	platform := &fakePlatform{
		detail: &upstream.ExternalEventDetail{SerialID: 34},
		event:  &upstream.EventInfoResult{},
	}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.ReadModel(rec, readRequest("5", "34"))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Model)
	assert.Equal(t, "update", resp.Model.Mode)
	require.NotNil(t, resp.Model.Detail)
	assert.Equal(t, int64(34), resp.Model.Detail.SerialID)
}

func TestReadModel_AuthFailureLogsOut(t *testing.T) {
	platform := &fakePlatform{
		profileErr: &upstream.AuthError{Status: http.StatusUnauthorized},
	}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.ReadModel(rec, readRequest("5", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestReadModel_MissingDetailIs404(t *testing.T) {
	platform := &fakePlatform{
		detailErr: &upstream.NotFoundError{Resource: "external event"},
		event:     &upstream.EventInfoResult{},
	}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.ReadModel(rec, readRequest("5", "34"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadModel_NotFoundFromOtherFetchNamesThatFailure(t *testing.T) {
	platform := &fakePlatform{
		detail:     &upstream.ExternalEventDetail{SerialID: 34},
		profileErr: &upstream.NotFoundError{Resource: "profile"},
		event:      &upstream.EventInfoResult{},
	}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.ReadModel(rec, readRequest("5", "34"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream profile not found")
}

func TestReadModel_EventFetchFailureDistrustsBeforeStart(t *testing.T) {
	platform := &fakePlatform{
		event:    &upstream.EventInfoResult{IsBeforeStart: true},
		eventErr: &upstream.NotFoundError{Resource: "event"},
	}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.ReadModel(rec, readRequest("5", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Model)
	assert.False(t, resp.Model.IsBeforeStart)
}

func TestReadModel_InvalidEventID(t *testing.T) {
	handler := newHandler(&fakePlatform{})

	rec := httptest.NewRecorder()
	handler.ReadModel(rec, readRequest("abc", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_RegisterSuccessRedirectsToListing(t *testing.T) {
	platform := &fakePlatform{}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequest(t, "12", "", externalevent.FormValues{Title: "Summer fair"}))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "/organizer/events/12/external-events", resp.Redirect)
	require.Len(t, platform.registered, 1)
	assert.Equal(t, "Summer fair", platform.registered[0].req.Title)
	assert.Empty(t, platform.updated)
}

func TestSubmit_UpdateSuccessRedirectsToDetail(t *testing.T) {
	platform := &fakePlatform{}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequest(t, "12", "34", externalevent.FormValues{Title: "Summer fair"}))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "/organizer/events/12/external-events/34", resp.Redirect)
	require.Len(t, platform.updated, 1)
	assert.Equal(t, int64(34), platform.updated[0].serialID)
	assert.Empty(t, platform.registered)
}

func TestSubmit_ValidationFailureReturnsDialog(t *testing.T) {
	platform := &fakePlatform{
		registerErr: &upstream.ValidationError{Violations: []upstream.Violation{
			{Param: "title", Msg: "title is required"},
		}},
	}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequest(t, "12", "", externalevent.FormValues{}))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Dialog)
	assert.Equal(t, "common:dialog-error", resp.Dialog.Title)
	assert.Equal(t, "organizer:external-event-register-update/title-invalid", resp.Dialog.Message)
	assert.Empty(t, resp.Redirect)
}

func TestSubmit_OtherFailureRedirectsToErrorSurface(t *testing.T) {
	platform := &fakePlatform{
		registerErr: &upstream.OtherError{Status: http.StatusServiceUnavailable},
	}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequest(t, "12", "", externalevent.FormValues{}))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "/organizer/error/503", resp.Redirect)
	assert.Nil(t, resp.Dialog)
}

func TestSubmit_AuthFailureLogsOut(t *testing.T) {
	platform := &fakePlatform{
		registerErr: &upstream.AuthError{Status: http.StatusUnauthorized},
	}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequest(t, "12", "", externalevent.FormValues{}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSubmit_UploadGateBlocks(t *testing.T) {
	platform := &fakePlatform{uploading: true}
	handler := newHandler(platform)

	rec := httptest.NewRecorder()
	handler.Submit(rec, submitRequest(t, "12", "", externalevent.FormValues{}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, platform.registered)
	assert.Empty(t, platform.updated)
}

func TestSubmit_MultipartCarriesThumbnail(t *testing.T) {
	platform := &fakePlatform{}
	handler := newHandler(platform)

	values, err := json.Marshal(externalevent.FormValues{Title: "With image"})
	require.NoError(t, err)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("values", string(values)))
	part, err := writer.CreateFormFile("thumbnail", "poster.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/organizer/api/submit", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetPathValue("eventId", "12")

	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, platform.registered, 1)
	upfile := platform.registered[0].upfile
	require.NotNil(t, upfile)
	assert.Equal(t, "poster.png", upfile.FileName)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, upfile.Content)
}

func TestSubmit_MultipartWithoutThumbnail(t *testing.T) {
	platform := &fakePlatform{}
	handler := newHandler(platform)

	values, err := json.Marshal(externalevent.FormValues{Title: "No image"})
	require.NoError(t, err)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("values", string(values)))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/organizer/api/submit", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetPathValue("eventId", "12")

	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, platform.registered, 1)
	assert.Nil(t, platform.registered[0].upfile)
}

func TestSubmit_MalformedBody(t *testing.T) {
	handler := newHandler(&fakePlatform{})

	req := httptest.NewRequest(http.MethodPost, "/organizer/api/submit", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("eventId", "12")

	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	t.Run("reachable upstream is healthy", func(t *testing.T) {
		checker := NewHealthChecker(&fakePinger{}, "1.2.3", "abc123")

		rec := httptest.NewRecorder()
		checker.Health().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body HealthCheck
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "1.2.3", body.Version)
		assert.Equal(t, "pass", body.Checks["upstream"].Status)
	})

	t.Run("unreachable upstream is unhealthy", func(t *testing.T) {
		checker := NewHealthChecker(&fakePinger{err: errors.New("connection refused")}, "1.2.3", "abc123")

		rec := httptest.NewRecorder()
		checker.Health().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body HealthCheck
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "fail", body.Checks["upstream"].Status)
	})
}
