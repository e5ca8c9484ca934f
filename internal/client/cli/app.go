package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/client"
	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/client/routes"
	"github.com/dmitrijs2005/gobarber/internal/client/services"
	"github.com/dmitrijs2005/gobarber/internal/logging"
)

// The App talks to its services through these interfaces so tests can
// replace them.
type (
	authService interface {
		State() services.State
		Subscribe(fn func(services.State)) (unsubscribe func())
		SignIn(ctx context.Context, credentials models.Credentials) error
		SignOut(ctx context.Context)
	}

	schedulerService interface {
		Open(ctx context.Context, providerID string) error
		Close()
		User() (models.User, bool)
		Providers() []models.Provider
		Selection() (providerID string, date time.Time, hour int)
		Slots() (morning, afternoon []models.HourSlot)
		SelectProvider(ctx context.Context, providerID string) error
		SelectDate(ctx context.Context, date time.Time) error
		SelectHour(hour int) error
		Submit(ctx context.Context) error
	}

	profileService interface {
		Form() (models.ProfileUpdate, error)
		Update(ctx context.Context, form models.ProfileUpdate) error
		UpdateAvatar(ctx context.Context, path string) error
	}

	registrationService interface {
		SignUp(ctx context.Context, form models.SignUp) error
	}

	providerLister interface {
		ListProviders(ctx context.Context) ([]models.Provider, error)
	}
)

// App is the terminal front end. It owns no session state: everything it
// shows about the user comes from the AuthService.
type App struct {
	auth         authService
	scheduler    schedulerService
	profile      profileService
	registration registrationService
	providers    providerLister
	log          logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// providers shown by the last dashboard, for "book <n>"
	listed []models.Provider
}

// NewApp builds the screens on top of api and auth. Input is read from in,
// prompts are written to out.
func NewApp(api client.Client, auth *services.AuthService, log logging.Logger, in io.Reader, out io.Writer) *App {
	if auth == nil {
		panic("cli: NewApp called without an AuthService")
	}

	a := &App{
		auth:      auth,
		providers: api,
		log:       log.With("component", "cli"),
		reader:    bufio.NewReader(in),
		out:       out,
	}
	a.scheduler = services.NewScheduler(api, auth, a, a, log)
	a.profile = services.NewProfile(api, auth, a, log)
	a.registration = services.NewRegistration(api, a, log)
	return a
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to GoBarber (type 'help' for commands)")

	stop := routes.Watch(a.auth, a.showRoute)
	defer stop()

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) route() routes.Route {
	return routes.Select(a.auth.State())
}

func (a *App) showRoute(r routes.Route) {
	switch r {
	case routes.RouteLoading:
		printlnFn("Loading...")
	case routes.RouteAuth:
		printlnFn("Sign in to continue (signin, signup)")
	case routes.RouteApp:
		if st := a.auth.State(); st.Session != nil {
			printlnFn(fmt.Sprintf("Signed in as %s", st.Session.User.Name))
		}
	}
}

func (a *App) status() string {
	st := a.auth.State()
	switch {
	case st.Loading:
		return "..."
	case st.Session != nil:
		return st.Session.User.Name
	default:
		return "guest"
	}
}

// Alert prints a modal-style message.
func (a *App) Alert(title, message string) {
	printlnFn(fmt.Sprintf("[%s] %s", title, message))
}

// AppointmentCreated is the confirmation screen.
func (a *App) AppointmentCreated(date time.Time) {
	printlnFn("Appointment booked")
	printlnFn(date.Format("Monday, January 2, 2006 at 15:04"))
}
