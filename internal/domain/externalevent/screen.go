package externalevent

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/eventport/organizer-console/internal/i18n"
	"github.com/eventport/organizer-console/internal/routes"
	"github.com/eventport/organizer-console/internal/upstream"
)

// Mutator is the slice of the platform client the screen mutates through.
type Mutator interface {
	RegisterExternalEvent(ctx context.Context, eventID int64, req upstream.ExternalEventRequest, upfile *upstream.ExternalEventUpfile) error
	UpdateExternalEvent(ctx context.Context, eventID, serialID int64, req upstream.ExternalEventRequest, upfile *upstream.ExternalEventUpfile) error
}

// ScreenConfig wires one screen instance.
type ScreenConfig struct {
	EventID  int64
	SerialID int64 // zero means no existing record: Register mode
	Mutator  Mutator
	Localize i18n.Localizer
	Navigate func(path string)
	Logout   func()
	Logger   zerolog.Logger
}

// Screen is the submission orchestrator of the external-event
// register/update screen. It owns the busy flag and the dialog slot for
// the duration of one submission attempt; nothing else mutates them.
//
// The busy flag does not serialize overlapping submissions. The
// frontend disables the submit control while the flag is up.
type Screen struct {
	eventID  int64
	serialID int64
	mode     Mode
	mutator  Mutator
	localize i18n.Localizer
	navigate func(path string)
	handler  *ErrorHandler
	logger   zerolog.Logger

	busy   bool
	dialog *DialogContent
}

// NewScreen constructs a screen instance. The mode is derived here,
// once, from the presence of a serial ID, and stays fixed afterwards.
func NewScreen(cfg ScreenConfig) *Screen {
	s := &Screen{
		eventID:  cfg.EventID,
		serialID: cfg.SerialID,
		mode:     ModeRegister,
		mutator:  cfg.Mutator,
		localize: cfg.Localize,
		navigate: cfg.Navigate,
		logger:   cfg.Logger,
	}
	if cfg.SerialID != 0 {
		s.mode = ModeUpdate
	}
	if s.navigate == nil {
		s.navigate = func(string) {}
	}

	s.handler = &ErrorHandler{
		OnAuthError: cfg.Logout,
		OnValidationError: func(e *upstream.ValidationError) {
			dialog := ClassifyValidation(e, s.localize)
			s.dialog = &dialog
		},
		OnOtherError: func(status int) {
			s.navigate(routes.Build(routes.Error, map[string]string{
				"status": strconv.Itoa(status),
			}))
		},
		OnNotFoundError: func() {},
	}
	return s
}

// Mode returns the screen's fixed mode.
func (s *Screen) Mode() Mode {
	return s.mode
}

// Handler exposes the screen's error handler for the read-side
// collaborator calls that share it.
func (s *Screen) Handler() *ErrorHandler {
	return s.handler
}

// Busy reports whether a submission is in flight.
func (s *Screen) Busy() bool {
	return s.busy
}

// Dialog returns the current dialog content, nil when there is none.
func (s *Screen) Dialog() *DialogContent {
	return s.dialog
}

// ClearDialog drops the dialog content after the frontend consumed it.
func (s *Screen) ClearDialog() {
	s.dialog = nil
}

// Submit runs one submission attempt: exactly one mutation, chosen by
// the screen's mode, and on success exactly one navigation. On failure
// the error handler populates the dialog or error-surface state and the
// classified error is returned; navigation is left untouched. The busy
// flag is released on every path.
func (s *Screen) Submit(ctx context.Context, values FormValues) error {
	req, upfile := BuildRequest(values)

	s.busy = true
	defer func() { s.busy = false }()

	var err error
	if s.mode == ModeUpdate {
		err = s.mutator.UpdateExternalEvent(ctx, s.eventID, s.serialID, req, upfile)
	} else {
		err = s.mutator.RegisterExternalEvent(ctx, s.eventID, req, upfile)
	}
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("event_id", s.eventID).
			Str("mode", s.mode.String()).
			Msg("external event submission failed")
		s.handler.Handle(err)
		return err
	}

	if s.mode == ModeUpdate {
		s.navigate(routes.Build(routes.ExternalEventDetail, map[string]string{
			"eventId":  strconv.FormatInt(s.eventID, 10),
			"serialId": strconv.FormatInt(s.serialID, 10),
		}))
	} else {
		s.navigate(routes.Build(routes.ExternalEventList, map[string]string{
			"eventId": strconv.FormatInt(s.eventID, 10),
		}))
	}
	return nil
}

// ReadModelInput carries the read-side fetch results into the screen
// state assembly. Fetches are independent; any of them may have failed
// and been routed through the shared error handler already.
type ReadModelInput struct {
	Detail      *upstream.ExternalEventDetail
	Categories  []upstream.Category
	Profile     *upstream.Profile
	Event       *upstream.EventInfoResult
	EventErr    error
	IsUploading bool
}

// ReadModel is the single render model the frontend consumes.
type ReadModel struct {
	EventID       int64                         `json:"eventId"`
	SerialID      int64                         `json:"serialId,omitempty"`
	Mode          string                        `json:"mode"`
	Detail        *upstream.ExternalEventDetail `json:"detail,omitempty"`
	Categories    []upstream.Category           `json:"categories,omitempty"`
	Profile       *upstream.Profile             `json:"profile,omitempty"`
	EventInfo     *upstream.EventInfo           `json:"eventInfo,omitempty"`
	IsBeforeStart bool                          `json:"isBeforeStart"`
	IsLoading     bool                          `json:"isLoading"`
	IsUploading   bool                          `json:"isUploading"`
	Dialog        *DialogContent                `json:"dialog,omitempty"`
}

// ReadModel assembles the render model. Pure field assembly, except the
// one short-circuit: isBeforeStart is only trusted when the event-info
// fetch itself succeeded.
func (s *Screen) ReadModel(in ReadModelInput) ReadModel {
	model := ReadModel{
		EventID:     s.eventID,
		SerialID:    s.serialID,
		Mode:        s.mode.String(),
		Detail:      in.Detail,
		Categories:  in.Categories,
		Profile:     in.Profile,
		IsLoading:   s.busy,
		IsUploading: in.IsUploading,
		Dialog:      s.dialog,
	}
	if in.Event != nil {
		model.EventInfo = &in.Event.EventInfo
		model.IsBeforeStart = in.EventErr == nil && in.Event.IsBeforeStart
	}
	return model
}
