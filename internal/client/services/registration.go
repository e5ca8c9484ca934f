package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gobarber/internal/client/client"
	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/client/validation"
	"github.com/dmitrijs2005/gobarber/internal/logging"
)

const (
	SignUpSuccessTitle   = "Registration completed!"
	SignUpSuccessMessage = "You can now sign in to GoBarber"
	SignUpErrorTitle     = "Registration error"
	SignUpErrorMessage   = "Please try again later"
)

// Registration backs the sign-up screen.
type Registration struct {
	api   client.Client
	alert Alerter
	log   logging.Logger
}

func NewRegistration(api client.Client, alert Alerter, log logging.Logger) *Registration {
	return &Registration{api: api, alert: alert, log: log.With("component", "registration")}
}

// SignUp creates the account. Invalid input is returned as
// validation.Errors without an alert; API failures raise a generic alert.
func (r *Registration) SignUp(ctx context.Context, form models.SignUp) error {
	if err := validation.SignUp(form); err != nil {
		return err
	}

	user, err := r.api.CreateUser(ctx, form)
	if err != nil {
		r.log.Warn(ctx, "sign up failed", "error", err)
		r.alert.Alert(SignUpErrorTitle, SignUpErrorMessage)
		return fmt.Errorf("sign up: %w", err)
	}

	r.log.Info(ctx, "user registered", "user_id", user.ID)
	r.alert.Alert(SignUpSuccessTitle, SignUpSuccessMessage)
	return nil
}
