package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/client/services"
	"github.com/dmitrijs2005/gobarber/internal/logging"
)

func sprint(a ...any) string {
	return strings.TrimSuffix(fmt.Sprintln(a...), "\n")
}

type fakeAuth struct {
	state   services.State
	signIns []models.Credentials
	signErr error
	signOut int
}

func (f *fakeAuth) State() services.State { return f.state }
func (f *fakeAuth) Subscribe(fn func(services.State)) func() {
	return func() {}
}
func (f *fakeAuth) SignIn(_ context.Context, c models.Credentials) error {
	f.signIns = append(f.signIns, c)
	return f.signErr
}
func (f *fakeAuth) SignOut(context.Context) {
	f.signOut++
	f.state.Session = nil
}

type fakeScheduler struct {
	opened    []string
	closed    int
	openErr   error
	providers []models.Provider
	provider  string
	date      time.Time
	hour      int
	submitErr []error
	submits   int
}

func (f *fakeScheduler) Open(_ context.Context, id string) error {
	f.opened = append(f.opened, id)
	f.provider = id
	return f.openErr
}
func (f *fakeScheduler) Close() { f.closed++ }
func (f *fakeScheduler) User() (models.User, bool) { return models.User{Name: "Ann"}, true }
func (f *fakeScheduler) Providers() []models.Provider { return f.providers }
func (f *fakeScheduler) Selection() (string, time.Time, int) {
	return f.provider, f.date, f.hour
}
func (f *fakeScheduler) Slots() (morning, afternoon []models.HourSlot) {
	return services.Partition([]models.AvailabilityItem{{Hour: 9, Available: true}, {Hour: 15, Available: true}})
}
func (f *fakeScheduler) SelectProvider(_ context.Context, id string) error {
	f.provider = id
	return nil
}
func (f *fakeScheduler) SelectDate(_ context.Context, d time.Time) error {
	f.date = d
	return nil
}
func (f *fakeScheduler) SelectHour(h int) error {
	if h < 0 || h > 23 {
		return services.ErrHourOutOfRange
	}
	if h != 9 && h != 15 {
		return services.ErrHourUnavailable
	}
	f.hour = h
	return nil
}
func (f *fakeScheduler) Submit(context.Context) error {
	f.submits++
	if len(f.submitErr) > 0 {
		err := f.submitErr[0]
		f.submitErr = f.submitErr[1:]
		return err
	}
	return nil
}

type fakeProfile struct {
	form     models.ProfileUpdate
	formErr  error
	updates  []models.ProfileUpdate
	err      error
	avatars  []string
	avatarEr error
}

func (f *fakeProfile) Form() (models.ProfileUpdate, error) { return f.form, f.formErr }
func (f *fakeProfile) Update(_ context.Context, form models.ProfileUpdate) error {
	f.updates = append(f.updates, form)
	return f.err
}
func (f *fakeProfile) UpdateAvatar(_ context.Context, path string) error {
	f.avatars = append(f.avatars, path)
	return f.avatarEr
}

type fakeRegistration struct {
	forms []models.SignUp
	err   error
}

func (f *fakeRegistration) SignUp(_ context.Context, form models.SignUp) error {
	f.forms = append(f.forms, form)
	return f.err
}

type fakeLister struct {
	providers []models.Provider
	err       error
}

func (f *fakeLister) ListProviders(context.Context) ([]models.Provider, error) {
	return f.providers, f.err
}

type testApp struct {
	*App
	auth         *fakeAuth
	scheduler    *fakeScheduler
	profile      *fakeProfile
	registration *fakeRegistration
	lister       *fakeLister
	out          *[]string
}

// newTestApp builds an App over fakes, reading input from the given lines.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	stubTerminal(t, false, nil, nil)
	out := captureOutput(t)

	ta := &testApp{
		auth:         &fakeAuth{},
		scheduler:    &fakeScheduler{},
		profile:      &fakeProfile{},
		registration: &fakeRegistration{},
		lister:       &fakeLister{},
		out:          out,
	}
	ta.App = &App{
		auth:         ta.auth,
		scheduler:    ta.scheduler,
		profile:      ta.profile,
		registration: ta.registration,
		providers:    ta.lister,
		log:          logging.Nop(),
		reader:       rdr(input),
		out:          io.Discard,
	}
	return ta
}
