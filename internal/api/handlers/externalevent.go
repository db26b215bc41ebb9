// Package handlers holds the console's HTTP handlers. The external
// event handler runs one screen instance per request: reads assemble
// the render model from concurrent platform fetches, submits run the
// screen's submission pipeline and translate its outcome into a JSON
// response the SPA acts on.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eventport/organizer-console/internal/api/middleware"
	"github.com/eventport/organizer-console/internal/api/problem"
	"github.com/eventport/organizer-console/internal/auth"
	"github.com/eventport/organizer-console/internal/domain/externalevent"
	"github.com/eventport/organizer-console/internal/i18n"
	"github.com/eventport/organizer-console/internal/metrics"
	"github.com/eventport/organizer-console/internal/upstream"
)

// maxUploadBytes caps the submit request body. The platform enforces
// its own 50MB thumbnail limit; this only bounds what we buffer.
const maxUploadBytes = 64 << 20

// Reader is the slice of the platform client the read model is
// assembled from.
type Reader interface {
	ExternalEvent(ctx context.Context, eventID, serialID int64) (*upstream.ExternalEventDetail, error)
	Categories(ctx context.Context, eventID int64, filter upstream.CategoryFilter) ([]upstream.Category, error)
	Profile(ctx context.Context) (*upstream.Profile, error)
	Event(ctx context.Context, eventID int64) (*upstream.EventInfoResult, error)
	SeminarVideoUploading(ctx context.Context, eventID int64) (bool, error)
}

// Platform is everything the external-event screen needs from the
// platform API.
type Platform interface {
	Reader
	externalevent.Mutator
}

// ExternalEventHandler serves the register/update screen endpoints.
type ExternalEventHandler struct {
	platform     Platform
	localize     i18n.Localizer
	cookieSecure bool
	environment  string
}

func NewExternalEventHandler(platform Platform, localize i18n.Localizer, cookieSecure bool, environment string) *ExternalEventHandler {
	return &ExternalEventHandler{
		platform:     platform,
		localize:     localize,
		cookieSecure: cookieSecure,
		environment:  environment,
	}
}

// screenResponse is the envelope every screen endpoint answers with.
// Exactly one of the optional fields is set on failure paths; Model is
// present on successful reads, Redirect on successful submits.
type screenResponse struct {
	Model    *externalevent.ReadModel     `json:"model,omitempty"`
	Dialog   *externalevent.DialogContent `json:"dialog,omitempty"`
	Redirect string                       `json:"redirect,omitempty"`
}

// screenSinks captures the screen's side effects for one request so
// they can be rendered into the response afterwards.
type screenSinks struct {
	redirect  string
	loggedOut bool
}

func (h *ExternalEventHandler) newScreen(r *http.Request, eventID, serialID int64) (*externalevent.Screen, *screenSinks) {
	sinks := &screenSinks{}
	screen := externalevent.NewScreen(externalevent.ScreenConfig{
		EventID:  eventID,
		SerialID: serialID,
		Mutator:  h.platform,
		Localize: h.localize,
		Navigate: func(path string) { sinks.redirect = path },
		Logout:   func() { sinks.loggedOut = true },
		Logger:   *zerolog.Ctx(r.Context()),
	})
	return screen, sinks
}

// ReadModel handles GET of the screen state for both modes. The serial
// ID path value is absent on the register route.
func (h *ExternalEventHandler) ReadModel(w http.ResponseWriter, r *http.Request) {
	eventID, serialID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	screen, sinks := h.newScreen(r, eventID, serialID)

	var in externalevent.ReadModelInput
	var detailErr, categoriesErr, profileErr, uploadingErr error

	g, ctx := errgroup.WithContext(r.Context())
	if serialID != 0 {
		g.Go(func() error {
			in.Detail, detailErr = h.platform.ExternalEvent(ctx, eventID, serialID)
			return nil
		})
	}
	g.Go(func() error {
		in.Categories, categoriesErr = h.platform.Categories(ctx, eventID, upstream.CategoryFilter{
			TypeExternalEvent: upstream.CategoryExternalEventActive,
		})
		return nil
	})
	g.Go(func() error {
		in.Profile, profileErr = h.platform.Profile(ctx)
		return nil
	})
	g.Go(func() error {
		in.Event, in.EventErr = h.platform.Event(ctx, eventID)
		return nil
	})
	g.Go(func() error {
		in.IsUploading, uploadingErr = h.platform.SeminarVideoUploading(ctx, eventID)
		return nil
	})
	_ = g.Wait()

	// Dispatch sequentially so the handler slots never race.
	var notFoundErr error
	for _, err := range []error{detailErr, categoriesErr, profileErr, in.EventErr, uploadingErr} {
		if err == nil {
			continue
		}
		screen.Handler().Handle(err)

		var nf *upstream.NotFoundError
		if errors.As(err, &nf) && notFoundErr == nil {
			notFoundErr = err
		}
	}

	if sinks.loggedOut {
		h.writeLogout(w, r)
		return
	}
	if serialID != 0 && notFoundErr != nil {
		problem.Write(w, r, http.StatusNotFound,
			"https://console.eventport.example/problems/not-found",
			"External event not found", notFoundErr, h.environment)
		return
	}
	if sinks.redirect != "" {
		h.writeJSON(w, r, http.StatusOK, screenResponse{Redirect: sinks.redirect})
		return
	}

	model := screen.ReadModel(in)
	w.Header().Set("X-CSRF-Token", middleware.CSRFToken(r))
	h.writeJSON(w, r, http.StatusOK, screenResponse{Model: &model, Dialog: screen.Dialog()})
}

// Submit handles the POST for register and update. The body is either
// plain JSON form values or a multipart form with a "values" JSON part
// and an optional "thumbnail" file part.
func (h *ExternalEventHandler) Submit(w http.ResponseWriter, r *http.Request) {
	eventID, serialID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	screen, sinks := h.newScreen(r, eventID, serialID)

	uploading, err := h.platform.SeminarVideoUploading(r.Context(), eventID)
	if err != nil {
		screen.Handler().Handle(err)
		h.writeOutcome(w, r, screen, sinks, "blocked")
		return
	}
	if uploading {
		metrics.SubmissionsTotal.WithLabelValues(screen.Mode().String(), "blocked").Inc()
		problem.Write(w, r, http.StatusConflict,
			"https://console.eventport.example/problems/upload-in-flight",
			"A seminar video upload is in flight", nil, h.environment)
		return
	}

	values, err := h.parseForm(r)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(screen.Mode().String(), "bad_request").Inc()
		problem.Write(w, r, http.StatusBadRequest,
			"https://console.eventport.example/problems/bad-request",
			"Invalid submission body", err, h.environment)
		return
	}

	submitErr := screen.Submit(r.Context(), values)
	outcome := "success"
	if submitErr != nil {
		outcome = "failure"
	}
	h.writeOutcome(w, r, screen, sinks, outcome)
}

// writeOutcome translates the screen's post-submission state into the
// response the SPA consumes.
func (h *ExternalEventHandler) writeOutcome(w http.ResponseWriter, r *http.Request, screen *externalevent.Screen, sinks *screenSinks, outcome string) {
	metrics.SubmissionsTotal.WithLabelValues(screen.Mode().String(), outcome).Inc()

	switch {
	case sinks.loggedOut:
		h.writeLogout(w, r)
	case screen.Dialog() != nil:
		h.writeJSON(w, r, http.StatusOK, screenResponse{Dialog: screen.Dialog()})
	case sinks.redirect != "":
		h.writeJSON(w, r, http.StatusOK, screenResponse{Redirect: sinks.redirect})
	default:
		// Not-found falls through here: the screen leaves no dialog
		// and no navigation for it.
		problem.Write(w, r, http.StatusNotFound,
			"https://console.eventport.example/problems/not-found",
			"External event not found", nil, h.environment)
	}
}

func (h *ExternalEventHandler) writeLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieSecure)
	problem.Write(w, r, http.StatusUnauthorized,
		"https://console.eventport.example/problems/unauthorized",
		"Session expired or invalid", nil, h.environment)
}

// parseForm decodes the submitted form values, pulling the thumbnail
// out of the multipart body when one was attached.
func (h *ExternalEventHandler) parseForm(r *http.Request) (externalevent.FormValues, error) {
	var values externalevent.FormValues

	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return values, fmt.Errorf("parse multipart form: %w", err)
		}

		raw := r.FormValue("values")
		if raw == "" {
			return values, errors.New("missing values part")
		}
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return values, fmt.Errorf("decode values: %w", err)
		}

		file, header, err := r.FormFile("thumbnail")
		if err == nil {
			defer func() { _ = file.Close() }()
			content, readErr := io.ReadAll(file)
			if readErr != nil {
				return values, fmt.Errorf("read thumbnail: %w", readErr)
			}
			values.Thumbnail = &upstream.ExternalEventUpfile{
				FileName: header.Filename,
				Content:  content,
			}
		} else if !errors.Is(err, http.ErrMissingFile) {
			return values, fmt.Errorf("thumbnail part: %w", err)
		}
		return values, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		return values, fmt.Errorf("decode form values: %w", err)
	}
	return values, nil
}

// pathIDs parses the eventId path value and the optional serialId one.
func (h *ExternalEventHandler) pathIDs(w http.ResponseWriter, r *http.Request) (eventID, serialID int64, ok bool) {
	eventID, err := strconv.ParseInt(r.PathValue("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		problem.Write(w, r, http.StatusBadRequest,
			"https://console.eventport.example/problems/bad-request",
			"Invalid event ID", err, h.environment)
		return 0, 0, false
	}

	if raw := r.PathValue("serialId"); raw != "" {
		serialID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || serialID <= 0 {
			problem.Write(w, r, http.StatusBadRequest,
				"https://console.eventport.example/problems/bad-request",
				"Invalid serial ID", err, h.environment)
			return 0, 0, false
		}
	}
	return eventID, serialID, true
}

func (h *ExternalEventHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("encode response")
	}
}
