package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/client"
	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/logging"
)

const (
	AppointmentErrorTitle   = "Ops..."
	AppointmentErrorMessage = "Error creating appointment, please try again"
)

var (
	ErrNoProvider      = errors.New("no provider selected")
	ErrHourOutOfRange  = errors.New("hour must be between 0 and 23")
	ErrHourUnavailable = errors.New("hour is not available")
	ErrSchedulerClosed = errors.New("scheduler closed")
)

// Navigator moves the user to the confirmation screen.
type Navigator interface {
	AppointmentCreated(date time.Time)
}

// Alerter shows a modal message to the user.
type Alerter interface {
	Alert(title, message string)
}

// Scheduler is the state of the appointment creation screen: the provider
// list, the current provider/date/hour selection and the availability of
// the selected provider on the selected day.
//
// Availability is reloaded on every provider or date change and is empty
// until the new answer arrives. A response that belongs to an older
// selection, or that arrives after Close, is dropped.
type Scheduler struct {
	api   client.Client
	auth  *AuthService
	nav   Navigator
	alert Alerter
	log   logging.Logger
	nowFn func() time.Time

	mu           sync.Mutex
	providers    []models.Provider
	providerID   string
	date         time.Time
	hour         int
	availability []models.AvailabilityItem
	generation   uint64
	closed       bool
}

func NewScheduler(api client.Client, auth *AuthService, nav Navigator, alert Alerter, log logging.Logger) *Scheduler {
	if auth == nil {
		panic("services: NewScheduler called without an AuthService")
	}
	return &Scheduler{
		api:   api,
		auth:  auth,
		nav:   nav,
		alert: alert,
		log:   log.With("component", "scheduler"),
		nowFn: time.Now,
	}
}

// Open prepares the screen for providerID: the date becomes now, the hour
// 0, the provider list is fetched and the availability loaded.
func (s *Scheduler) Open(ctx context.Context, providerID string) error {
	s.mu.Lock()
	s.providerID = providerID
	s.date = s.nowFn()
	s.hour = 0
	s.availability = nil
	s.closed = false
	s.mu.Unlock()

	providers, err := s.api.ListProviders(ctx)
	if err != nil {
		return fmt.Errorf("list providers: %w", err)
	}

	s.mu.Lock()
	if !s.closed {
		s.providers = providers
	}
	s.mu.Unlock()

	return s.refresh(ctx)
}

// Close detaches the screen. Requests still in flight complete but their
// results are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// User is the signed-in user shown in the screen header.
func (s *Scheduler) User() (models.User, bool) {
	st := s.auth.State()
	if st.Session == nil {
		return models.User{}, false
	}
	return st.Session.User, true
}

func (s *Scheduler) Providers() []models.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.providers)
}

// Selection returns the selected provider id, date and hour.
func (s *Scheduler) Selection() (providerID string, date time.Time, hour int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.providerID, s.date, s.hour
}

func (s *Scheduler) Availability() []models.AvailabilityItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.availability)
}

// Slots is the current availability split for display.
func (s *Scheduler) Slots() (morning, afternoon []models.HourSlot) {
	return Partition(s.Availability())
}

func (s *Scheduler) SelectProvider(ctx context.Context, providerID string) error {
	s.mu.Lock()
	s.providerID = providerID
	s.mu.Unlock()
	return s.refresh(ctx)
}

func (s *Scheduler) SelectDate(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	s.date = date
	s.mu.Unlock()
	return s.refresh(ctx)
}

// SelectHour picks an hour the current availability offers as available.
func (s *Scheduler) SelectHour(hour int) error {
	if hour < 0 || hour > 23 {
		return ErrHourOutOfRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !hourAvailable(s.availability, hour) {
		return ErrHourUnavailable
	}
	s.hour = hour
	return nil
}

func hourAvailable(items []models.AvailabilityItem, hour int) bool {
	return slices.ContainsFunc(items, func(it models.AvailabilityItem) bool {
		return it.Hour == hour && it.Available
	})
}

func (s *Scheduler) refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSchedulerClosed
	}
	s.generation++
	gen := s.generation
	s.availability = nil
	providerID, date := s.providerID, s.date
	s.mu.Unlock()

	if providerID == "" {
		return nil
	}

	items, err := s.api.DayAvailability(ctx, providerID, date)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		s.log.Debug(ctx, "dropping stale availability", "provider_id", providerID, "day", date.Format(time.DateOnly))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load availability: %w", err)
	}
	s.availability = items
	return nil
}

// AppointmentTime combines the calendar day of date with hour, at the start
// of that hour in date's location.
func AppointmentTime(date time.Time, hour int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, date.Location())
}

// Submit books the selected slot. On success the Navigator receives the
// booked time; on any failure the user gets one generic alert and the
// error is returned. The selected hour must still be available for the
// current provider and date.
func (s *Scheduler) Submit(ctx context.Context) error {
	s.mu.Lock()
	providerID, date, hour := s.providerID, s.date, s.hour
	available := hourAvailable(s.availability, hour)
	s.mu.Unlock()

	if providerID == "" {
		s.alert.Alert(AppointmentErrorTitle, AppointmentErrorMessage)
		return ErrNoProvider
	}
	if !available {
		s.alert.Alert(AppointmentErrorTitle, AppointmentErrorMessage)
		return ErrHourUnavailable
	}

	at := AppointmentTime(date, hour)
	if _, err := s.api.CreateAppointment(ctx, models.NewAppointment{ProviderID: providerID, Date: at}); err != nil {
		s.log.Warn(ctx, "creating appointment failed", "provider_id", providerID, "error", err)
		s.alert.Alert(AppointmentErrorTitle, AppointmentErrorMessage)
		return fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info(ctx, "appointment created", "provider_id", providerID, "date", at)
	s.nav.AppointmentCreated(at)
	return nil
}

// Partition splits availability into morning (before noon) and afternoon
// slots, keeping the input order.
func Partition(items []models.AvailabilityItem) (morning, afternoon []models.HourSlot) {
	morning = make([]models.HourSlot, 0, len(items))
	afternoon = make([]models.HourSlot, 0, len(items))
	for _, it := range items {
		slot := models.HourSlot{Hour: it.Hour, Available: it.Available, Label: models.HourLabel(it.Hour)}
		if it.Hour < 12 {
			morning = append(morning, slot)
		} else {
			afternoon = append(afternoon, slot)
		}
	}
	return morning, afternoon
}
