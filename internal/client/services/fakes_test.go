package services

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/gobarber/internal/client/storage"
	"github.com/dmitrijs2005/gobarber/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	SessionRet   *models.Session
	SessionErr   error
	SessionGate  chan struct{}
	SessionCalls int

	UserRet *models.User
	UserErr error
	SignUps []models.SignUp

	ProvidersRet []models.Provider
	ProvidersErr error

	// availability per provider id; AvailabilityGate, when set, blocks
	// DayAvailability until a value is received
	Availability     map[string][]models.AvailabilityItem
	AvailabilityErr  error
	AvailabilityGate chan struct{}
	AvailabilityReqs []availabilityReq

	AppointmentErr error
	Appointments   []models.NewAppointment

	ProfileRet *models.User
	ProfileErr error
	Profiles   []models.ProfileUpdate

	AvatarRet  *models.User
	AvatarErr  error
	AvatarName string
	AvatarData []byte

	Authorization  string
	onUnauthorized func(string)
}

type availabilityReq struct {
	ProviderID string
	Day        time.Time
}

func (f *fakeClient) CreateSession(ctx context.Context, c models.Credentials) (*models.Session, error) {
	f.mu.Lock()
	f.SessionCalls++
	gate := f.SessionGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	cp := *f.SessionRet
	return &cp, nil
}

func (f *fakeClient) CreateUser(ctx context.Context, form models.SignUp) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignUps = append(f.SignUps, form)
	return f.UserRet, f.UserErr
}

func (f *fakeClient) ListProviders(ctx context.Context) ([]models.Provider, error) {
	return f.ProvidersRet, f.ProvidersErr
}

func (f *fakeClient) DayAvailability(ctx context.Context, providerID string, day time.Time) ([]models.AvailabilityItem, error) {
	f.mu.Lock()
	f.AvailabilityReqs = append(f.AvailabilityReqs, availabilityReq{ProviderID: providerID, Day: day})
	gate := f.AvailabilityGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.AvailabilityErr != nil {
		return nil, f.AvailabilityErr
	}
	return f.Availability[providerID], nil
}

func (f *fakeClient) CreateAppointment(ctx context.Context, a models.NewAppointment) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Appointments = append(f.Appointments, a)
	if f.AppointmentErr != nil {
		return nil, f.AppointmentErr
	}
	return &models.Appointment{ID: "a-1", ProviderID: a.ProviderID, Date: a.Date}, nil
}

func (f *fakeClient) UpdateProfile(ctx context.Context, form models.ProfileUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Profiles = append(f.Profiles, form)
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) UpdateAvatar(ctx context.Context, filename string, content io.Reader) (*models.User, error) {
	b, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AvatarName, f.AvatarData = filename, b
	return f.AvatarRet, f.AvatarErr
}

func (f *fakeClient) SetAuthorization(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Authorization = "Bearer " + token
}

func (f *fakeClient) ClearAuthorization() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Authorization = ""
}

func (f *fakeClient) OnUnauthorized(fn func(string)) { f.onUnauthorized = fn }

func (f *fakeClient) authorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Authorization
}

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "gobarber.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupStore(t *testing.T) *credentials.Store {
	t.Helper()
	return credentials.NewStore(setupDB(t))
}

func newAuth(t *testing.T, fc *fakeClient, store CredentialStore) *AuthService {
	t.Helper()
	return NewAuthService(fc, store, logging.Nop())
}

func strPtr(s string) *string { return &s }
