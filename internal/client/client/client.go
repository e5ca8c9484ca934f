package client

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/models"
)

// Client is the GoBarber API surface used by the services.
type Client interface {
	CreateSession(ctx context.Context, credentials models.Credentials) (*models.Session, error)
	CreateUser(ctx context.Context, form models.SignUp) (*models.User, error)
	ListProviders(ctx context.Context) ([]models.Provider, error)
	DayAvailability(ctx context.Context, providerID string, day time.Time) ([]models.AvailabilityItem, error)
	CreateAppointment(ctx context.Context, appointment models.NewAppointment) (*models.Appointment, error)
	UpdateProfile(ctx context.Context, form models.ProfileUpdate) (*models.User, error)
	UpdateAvatar(ctx context.Context, filename string, content io.Reader) (*models.User, error)

	// SetAuthorization installs "Bearer <token>" as the default
	// Authorization header of every following request.
	SetAuthorization(token string)
	ClearAuthorization()
	// OnUnauthorized registers fn to be called with the rejected token when
	// an authenticated request is answered with 401.
	OnUnauthorized(fn func(token string))
}
