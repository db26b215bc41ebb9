package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := []Option{
		WithHTTPClient(server.Client()),
		WithRateLimit(1000),
		WithTokenSource(func(context.Context) (string, error) { return "test-token", nil }),
	}
	return NewClient(server.URL, append(base, opts...)...)
}

func TestExternalEvent_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/organizer/events/12/external_events/34", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"serial_id": 34,
			"title":     "Winter Meetup",
			"category":  []int{7},
		})
	})

	detail, err := client.ExternalEvent(context.Background(), 12, 34)
	require.NoError(t, err)
	assert.Equal(t, int64(34), detail.SerialID)
	assert.Equal(t, "Winter Meetup", detail.Title)
	assert.Equal(t, []int{7}, detail.Category)
}

func TestDo_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to auth error",
			status: http.StatusUnauthorized,
			body:   `{"message":"token expired"}`,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, http.StatusUnauthorized, authErr.Status)
			},
		},
		{
			name:   "403 maps to auth error",
			status: http.StatusForbidden,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
			},
		},
		{
			name:   "404 maps to not found",
			status: http.StatusNotFound,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				var notFound *NotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, "external event", notFound.Resource)
			},
		},
		{
			name:   "422 maps to validation error with violations",
			status: http.StatusUnprocessableEntity,
			body:   `{"message":"validation failed","errors":[{"param":"title","msg":"title is required"}]}`,
			check: func(t *testing.T, err error) {
				var validation *ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, "validation failed", validation.Message)
				require.Len(t, validation.Violations, 1)
				assert.Equal(t, "title", validation.Violations[0].Param)
			},
		},
		{
			name:   "400 with undecodable body still classifies as validation",
			status: http.StatusBadRequest,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				var validation *ValidationError
				require.ErrorAs(t, err, &validation)
			},
		},
		{
			name:   "500 maps to other error with status",
			status: http.StatusInternalServerError,
			body:   `boom`,
			check: func(t *testing.T, err error) {
				var other *OtherError
				require.ErrorAs(t, err, &other)
				assert.Equal(t, http.StatusInternalServerError, other.Status)
			},
		},
		{
			name:   "503 maps to other error",
			status: http.StatusServiceUnavailable,
			body:   ``,
			check: func(t *testing.T, err error) {
				var other *OtherError
				require.ErrorAs(t, err, &other)
				assert.Equal(t, http.StatusServiceUnavailable, other.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.ExternalEvent(context.Background(), 12, 34)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestDo_NetworkFailureIsOtherErrorWith500(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // force connection refused

	client := NewClient(server.URL, WithRateLimit(1000))
	_, err := client.Profile(context.Background())
	require.Error(t, err)

	var other *OtherError
	require.ErrorAs(t, err, &other)
	assert.Equal(t, http.StatusInternalServerError, other.Status)
}

func TestDo_TokenSourceFailureIsAuthError(t *testing.T) {
	client := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("request must not reach upstream without a token")
		},
		WithTokenSource(func(context.Context) (string, error) {
			return "", assert.AnError
		}),
	)

	_, err := client.Profile(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestDo_ForwardsRequestID(t *testing.T) {
	var seen string
	client := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Get("X-Request-ID")
			_, _ = w.Write([]byte(`{}`))
		},
		WithRequestIDSource(func(context.Context) string { return "req-123" }),
	)

	_, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "req-123", seen)
}
