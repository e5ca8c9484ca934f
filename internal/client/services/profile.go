package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gobarber/internal/client/client"
	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/client/validation"
	"github.com/dmitrijs2005/gobarber/internal/logging"
)

const (
	ProfileSuccessTitle   = "Profile updated!"
	ProfileSuccessMessage = "Your profile information was saved"
	ProfileErrorTitle     = "Profile update error"
	ProfileErrorMessage   = "Please try again"
	AvatarErrorTitle      = "Avatar update error"
	AvatarErrorMessage    = "Could not update your avatar"
)

// Profile backs the profile screen: editing the user and the avatar. Every
// successful change is handed to the AuthService so the session and the
// credential store carry the server's new user.
type Profile struct {
	api   client.Client
	auth  *AuthService
	alert Alerter
	log   logging.Logger
}

func NewProfile(api client.Client, auth *AuthService, alert Alerter, log logging.Logger) *Profile {
	if auth == nil {
		panic("services: NewProfile called without an AuthService")
	}
	return &Profile{api: api, auth: auth, alert: alert, log: log.With("component", "profile")}
}

// Form returns the profile form prefilled with the signed-in user.
func (p *Profile) Form() (models.ProfileUpdate, error) {
	st := p.auth.State()
	if st.Session == nil {
		return models.ProfileUpdate{}, ErrNoSession
	}
	return models.ProfileUpdate{Name: st.Session.User.Name, Email: st.Session.User.Email}, nil
}

// Update sends the profile form. Validation failures come back as
// validation.Errors with no alert.
func (p *Profile) Update(ctx context.Context, form models.ProfileUpdate) error {
	if !p.auth.State().SignedIn() {
		return ErrNoSession
	}
	if err := validation.Profile(form); err != nil {
		return err
	}

	user, err := p.api.UpdateProfile(ctx, form)
	if err != nil {
		p.log.Warn(ctx, "profile update failed", "error", err)
		p.alert.Alert(ProfileErrorTitle, ProfileErrorMessage)
		return fmt.Errorf("update profile: %w", err)
	}

	if err := p.auth.UpdateUser(ctx, *user); err != nil {
		p.alert.Alert(ProfileErrorTitle, ProfileErrorMessage)
		return err
	}

	p.alert.Alert(ProfileSuccessTitle, ProfileSuccessMessage)
	return nil
}

// UpdateAvatar uploads the image at path as the new avatar.
func (p *Profile) UpdateAvatar(ctx context.Context, path string) error {
	if !p.auth.State().SignedIn() {
		return ErrNoSession
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	user, err := p.api.UpdateAvatar(ctx, filepath.Base(path), f)
	if err != nil {
		p.log.Warn(ctx, "avatar update failed", "error", err)
		p.alert.Alert(AvatarErrorTitle, AvatarErrorMessage)
		return fmt.Errorf("update avatar: %w", err)
	}

	if err := p.auth.UpdateUser(ctx, *user); err != nil {
		p.alert.Alert(AvatarErrorTitle, AvatarErrorMessage)
		return err
	}
	return nil
}
