package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	RequestIDHeaderName     = "X-Request-ID"
	AuthorizationHeaderName = "Authorization"

	tracerName = "github.com/dmitrijs2005/gobarber/internal/client/client"
)

var _ Client = (*HTTPClient)(nil)

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client

	mu             sync.RWMutex
	authorization  string
	onUnauthorized func(token string)
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout bounds every request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.http.Timeout = d }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &HTTPClient{baseURL: u, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) SetAuthorization(token string) {
	c.mu.Lock()
	c.authorization = "Bearer " + token
	c.mu.Unlock()
}

func (c *HTTPClient) ClearAuthorization() {
	c.mu.Lock()
	c.authorization = ""
	c.mu.Unlock()
}

// Authorization returns the current default Authorization header value.
func (c *HTTPClient) Authorization() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authorization
}

func (c *HTTPClient) OnUnauthorized(fn func(token string)) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *HTTPClient) CreateSession(ctx context.Context, credentials models.Credentials) (*models.Session, error) {
	var session models.Session
	if err := c.doJSON(ctx, http.MethodPost, "sessions", nil, credentials, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, form models.SignUp) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodPost, "users", nil, form, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) ListProviders(ctx context.Context) ([]models.Provider, error) {
	providers := make([]models.Provider, 0)
	if err := c.doJSON(ctx, http.MethodGet, "providers", nil, nil, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

func (c *HTTPClient) DayAvailability(ctx context.Context, providerID string, day time.Time) ([]models.AvailabilityItem, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(day.Year()))
	query.Set("month", strconv.Itoa(int(day.Month())))
	query.Set("day", strconv.Itoa(day.Day()))

	items := make([]models.AvailabilityItem, 0)
	path := "providers/" + url.PathEscape(providerID) + "/day-availability"
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) CreateAppointment(ctx context.Context, appointment models.NewAppointment) (*models.Appointment, error) {
	var created models.Appointment
	if err := c.doJSON(ctx, http.MethodPost, "appointments", nil, appointment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, form models.ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodPut, "profile", nil, form, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdateAvatar(ctx context.Context, filename string, content io.Reader) (*models.User, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		return nil, fmt.Errorf("build avatar form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build avatar form: %w", err)
	}

	var user models.User
	if err := c.do(ctx, http.MethodPatch, "users/avatar", nil, &body, mw.FormDataContentType(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, query url.Values, in any, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, method+" "+routeName(path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	u := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeaderName, requestID)
	span.SetAttributes(attribute.String("http.request.id", requestID))

	authorization := c.Authorization()
	if authorization != "" {
		req.Header.Set(AuthorizationHeaderName, authorization)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		// a rejected sign-in is not an expired session
		if resp.StatusCode == http.StatusUnauthorized && authorization != "" && path != "sessions" {
			c.notifyUnauthorized(strings.TrimPrefix(authorization, "Bearer "))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) notifyUnauthorized(token string) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(token)
	}
}

// routeName collapses ids out of a path so span names stay low-cardinality.
func routeName(path string) string {
	if strings.HasPrefix(path, "providers/") && strings.HasSuffix(path, "/day-availability") {
		return "providers/{id}/day-availability"
	}
	return path
}

func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// decodeAPIError reads the {"status":"error","message":"..."} body the API
// sends with failures. Bodies in any other shape are kept as the message.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(b) == 0 {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(b))
	return apiErr
}
