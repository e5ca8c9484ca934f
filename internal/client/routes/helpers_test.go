package routes

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/client/services"
	"github.com/dmitrijs2005/gobarber/internal/logging"
)

// emptyStore is a credential store that never held a session.
type emptyStore struct{}

func (emptyStore) Load(context.Context) ([]byte, []byte, error) { return nil, nil, nil }
func (emptyStore) Save(context.Context, []byte, []byte) error { return nil }
func (emptyStore) SaveUser(context.Context, []byte, []byte) error { return nil }
func (emptyStore) Remove(context.Context) error { return nil }

// offlineClient satisfies client.Client for tests that never reach the API.
type offlineClient struct{}

func (offlineClient) CreateSession(context.Context, models.Credentials) (*models.Session, error) {
	return nil, io.ErrUnexpectedEOF
}
func (offlineClient) CreateUser(context.Context, models.SignUp) (*models.User, error) {
	return nil, io.ErrUnexpectedEOF
}
func (offlineClient) ListProviders(context.Context) ([]models.Provider, error) { return nil, nil }
func (offlineClient) DayAvailability(context.Context, string, time.Time) ([]models.AvailabilityItem, error) {
	return nil, nil
}
func (offlineClient) CreateAppointment(context.Context, models.NewAppointment) (*models.Appointment, error) {
	return nil, io.ErrUnexpectedEOF
}
func (offlineClient) UpdateProfile(context.Context, models.ProfileUpdate) (*models.User, error) {
	return nil, io.ErrUnexpectedEOF
}
func (offlineClient) UpdateAvatar(context.Context, string, io.Reader) (*models.User, error) {
	return nil, io.ErrUnexpectedEOF
}
func (offlineClient) SetAuthorization(string) {}
func (offlineClient) ClearAuthorization() {}
func (offlineClient) OnUnauthorized(func(string)) {}

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	return services.NewAuthService(offlineClient{}, emptyStore{}, logging.Nop())
}
