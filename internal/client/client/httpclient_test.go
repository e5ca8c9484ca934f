package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(srv.URL + "/api", WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("ftp://example.com")
	require.Error(t, err)

	_, err = NewHTTPClient("://nope")
	require.Error(t, err)
}

func TestCreateSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sessions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeaderName))
		assert.NoError(t, err, "request id must be a uuid")

		var in models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, models.Credentials{Email: "ann@example.com", Password: "123456"}, in)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"id": "u1", "name": "Ann", "email": "ann@example.com", "avatar_url": nil},
		})
	})

	s, err := c.CreateSession(context.Background(), models.Credentials{Email: "ann@example.com", Password: "123456"})
	require.NoError(t, err)

	want := &models.Session{Token: "tok-1", User: models.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateSession_BadCredentials(t *testing.T) {
	var hookCalls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"status": "error", "message": "Incorrect email/password combination."})
	})
	c.SetAuthorization("stale")
	c.OnUnauthorized(func(string) { hookCalls.Add(1) })

	_, err := c.CreateSession(context.Background(), models.Credentials{Email: "a@b.c", Password: "x"})
	require.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Incorrect email/password combination.", apiErr.Message)
	assert.Zero(t, hookCalls.Load(), "failed sign-in must not trigger the expiry hook")
}

func TestAuthorizationHeader_SetAndCleared(t *testing.T) {
	var got atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get(AuthorizationHeaderName))
		writeJSON(t, w, http.StatusOK, []any{})
	})

	_, err := c.ListProviders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got.Load())

	c.SetAuthorization("tok-9")
	assert.Equal(t, "Bearer tok-9", c.Authorization())
	_, err = c.ListProviders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-9", got.Load())

	c.ClearAuthorization()
	_, err = c.ListProviders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got.Load())
}

func TestUnauthorizedHook_FiresOnAuthenticatedRequest(t *testing.T) {
	var hookCalls atomic.Int32
	var rejected atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"status": "error", "message": "Invalid JWT token"})
	})
	c.OnUnauthorized(func(token string) {
		hookCalls.Add(1)
		rejected.Store(token)
	})

	_, err := c.ListProviders(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, hookCalls.Load(), "no token, nothing to expire")

	c.SetAuthorization("tok")
	_, err = c.ListProviders(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), hookCalls.Load())
	assert.Equal(t, "tok", rejected.Load())
}

func TestListProviders(t *testing.T) {
	avatar := "http://cdn/p1.png"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/providers", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []models.Provider{{ID: "p1", Name: "Bob", AvatarURL: &avatar}, {ID: "p2", Name: "Eve"}})
	})

	providers, err := c.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "Bob", providers[0].Name)
	assert.Equal(t, avatar, *providers[0].AvatarURL)
	assert.Nil(t, providers[1].AvatarURL)
}

func TestDayAvailability_SendsCalendarDay(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/providers/p-1/day-availability", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2024", q.Get("year"))
		assert.Equal(t, "3", q.Get("month"))
		assert.Equal(t, "10", q.Get("day"))
		writeJSON(t, w, http.StatusOK, []models.AvailabilityItem{{Hour: 9, Available: true}, {Hour: 14, Available: false}})
	})

	day := time.Date(2024, time.March, 10, 18, 30, 0, 0, time.Local)
	items, err := c.DayAvailability(context.Background(), "p-1", day)
	require.NoError(t, err)
	assert.Equal(t, []models.AvailabilityItem{{Hour: 9, Available: true}, {Hour: 14, Available: false}}, items)
}

func TestCreateAppointment(t *testing.T) {
	date := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appointments", r.URL.Path)
		var in models.NewAppointment
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "p1", in.ProviderID)
		assert.True(t, in.Date.Equal(date))
		writeJSON(t, w, http.StatusOK, models.Appointment{ID: "a1", ProviderID: "p1", UserID: "u1", Date: date})
	})

	a, err := c.CreateAppointment(context.Background(), models.NewAppointment{ProviderID: "p1", Date: date})
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)
}

func TestCreateAppointment_BadRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"status": "error", "message": "This appointment is already booked"})
	})

	_, err := c.CreateAppointment(context.Background(), models.NewAppointment{ProviderID: "p1"})
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Contains(t, err.Error(), "already booked")
}

func TestUpdateProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/profile", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Ann B","email":"ann@example.com"}`, string(body))
		writeJSON(t, w, http.StatusOK, models.User{ID: "u1", Name: "Ann B", Email: "ann@example.com"})
	})

	u, err := c.UpdateProfile(context.Background(), models.ProfileUpdate{Name: "Ann B", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", u.Name)
}

func TestUpdateAvatar_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/users/avatar", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("avatar")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "me.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(b))

		url := "http://cdn/me.png"
		writeJSON(t, w, http.StatusOK, models.User{ID: "u1", AvatarURL: &url})
	})

	u, err := c.UpdateAvatar(context.Background(), "me.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/me.png", u.Avatar())
}

func TestServerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "service unavailable", status: http.StatusServiceUnavailable, body: "", want: ErrUnavailable},
		{name: "not found", status: http.StatusNotFound, body: `{"message":"User not found"}`, want: ErrNotFound},
		{name: "forbidden", status: http.StatusForbidden, body: "nope", want: ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.ListProviders(context.Background())
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInternalError_IsPlainAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal server error\n"))
	})

	_, err := c.ListProviders(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Internal server error", apiErr.Message)
	assert.Nil(t, errors.Unwrap(apiErr))
}

func TestTransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url)
	require.NoError(t, err)

	_, err = c.ListProviders(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCanceledContext_IsNotUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []any{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListProviders(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, ErrUnavailable)
}

func TestMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})
	_, err := c.ListProviders(context.Background())
	require.ErrorContains(t, err, "decode response")
}

func TestRouteName(t *testing.T) {
	assert.Equal(t, "providers/{id}/day-availability", routeName("providers/abc/day-availability"))
	assert.Equal(t, "sessions", routeName("sessions"))
}
