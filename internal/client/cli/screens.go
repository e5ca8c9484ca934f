package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/client/services"
	"github.com/dmitrijs2005/gobarber/internal/client/validation"
)

// Dashboard greets the user and lists the providers that can be booked.
func (a *App) Dashboard(ctx context.Context) error {
	st := a.auth.State()
	if st.Session == nil {
		return nil
	}
	printlnFn(fmt.Sprintf("Welcome, %s", st.Session.User.Name))

	providers, err := a.providers.ListProviders(ctx)
	if err != nil {
		a.log.Warn(ctx, "listing providers failed", "error", err)
		a.Alert("Ops...", "Could not load providers")
		return err
	}
	a.listed = providers

	if len(providers) == 0 {
		printlnFn("No providers available")
		return nil
	}
	printlnFn("Providers:")
	for i, p := range providers {
		printlnFn(fmt.Sprintf("  %d. %s (%s)", i+1, p.Name, p.ID))
	}
	printlnFn("Use 'book <n>' to schedule with a provider")
	return nil
}

// resolveProvider accepts a provider id or a 1-based position in the last
// dashboard listing.
func (a *App) resolveProvider(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(a.listed) {
		return a.listed[n-1].ID
	}
	return arg
}

// Book runs the appointment screen for providerArg until the appointment is
// created or the user goes back.
//
//	p <n|id>        select provider
//	d YYYY-MM-DD    select date
//	h <hour>        select hour
//	ok              create the appointment
//	back            leave the screen
func (a *App) Book(ctx context.Context, providerArg string) error {
	if providerArg == "" {
		printlnFn("Usage: book <n|provider id>")
		return nil
	}

	defer a.scheduler.Close()
	if err := a.scheduler.Open(ctx, a.resolveProvider(providerArg)); err != nil {
		a.log.Warn(ctx, "opening scheduler failed", "error", err)
		a.Alert("Ops...", "Could not load the schedule")
		return err
	}

	for {
		a.printSchedule()
		line, err := getSimpleText(a.reader, "p <provider> | d YYYY-MM-DD | h <hour> | ok | back", a.out)
		if err != nil {
			return err
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "p":
			if err := a.scheduler.SelectProvider(ctx, a.resolveProvider(arg)); err != nil {
				a.log.Warn(ctx, "loading availability failed", "error", err)
				printlnFn("Could not load availability")
			}
		case "d":
			day, err := time.ParseInLocation(time.DateOnly, arg, time.Local)
			if err != nil {
				printlnFn("Date must look like 2024-03-10")
				continue
			}
			if err := a.scheduler.SelectDate(ctx, day); err != nil {
				a.log.Warn(ctx, "loading availability failed", "error", err)
				printlnFn("Could not load availability")
			}
		case "h":
			hour, err := strconv.Atoi(arg)
			if err == nil {
				err = a.scheduler.SelectHour(hour)
			}
			switch {
			case errors.Is(err, services.ErrHourUnavailable):
				printlnFn(fmt.Sprintf("%s is not available, pick one of the listed hours", models.HourLabel(hour)))
			case err != nil:
				printlnFn("Hour must be a number from 0 to 23")
			}
		case "ok":
			// the scheduler alerts on failure; stay on the screen
			if err := a.scheduler.Submit(ctx); err == nil {
				return nil
			}
		case "back":
			return nil
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) printSchedule() {
	providerID, date, hour := a.scheduler.Selection()

	if u, ok := a.scheduler.User(); ok {
		printlnFn(fmt.Sprintf("Hairdressers (%s)", u.Name))
	}
	var names []string
	for _, p := range a.scheduler.Providers() {
		if p.ID == providerID {
			names = append(names, "["+p.Name+"]")
		} else {
			names = append(names, p.Name)
		}
	}
	printlnFn(strings.Join(names, "  "))
	printlnFn("Date:", date.Format(time.DateOnly))

	morning, afternoon := a.scheduler.Slots()
	printlnFn("Morning:  ", formatSlots(morning, hour))
	printlnFn("Afternoon:", formatSlots(afternoon, hour))
}

// formatSlots renders unavailable hours in parentheses and the selected one
// with a star.
func formatSlots(slots []models.HourSlot, selected int) string {
	if len(slots) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		label := s.Label
		switch {
		case !s.Available:
			label = "(" + label + ")"
		case s.Hour == selected:
			label = "*" + label
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

// Profile edits name, e-mail and optionally the password. Empty answers keep
// the current name and e-mail; an empty current password skips the
// password change.
func (a *App) Profile(ctx context.Context) error {
	form, err := a.profile.Form()
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", form.Name), a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, fmt.Sprintf("E-mail [%s]", form.Email), a.out)
	if err != nil {
		return err
	}
	if name != "" {
		form.Name = name
	}
	if email != "" {
		form.Email = email
	}

	form.OldPassword, err = getPassword(a.reader, "Current password (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if form.OldPassword != "" {
		if form.Password, err = getPassword(a.reader, "New password", a.out); err != nil {
			return err
		}
		if form.PasswordConfirmation, err = getPassword(a.reader, "Confirm password", a.out); err != nil {
			return err
		}
	}

	err = a.profile.Update(ctx, form)
	if _, ok := validation.FieldErrors(err); ok {
		printFieldErrors(err)
	}
	return err
}

// Avatar uploads the image at path as the new avatar.
func (a *App) Avatar(ctx context.Context, path string) error {
	if path == "" {
		printlnFn("Usage: avatar <image path>")
		return nil
	}
	if err := a.profile.UpdateAvatar(ctx, path); err != nil {
		a.log.Warn(ctx, "avatar update failed", "error", err)
		printlnFn("Avatar not updated:", err)
		return err
	}
	printlnFn("Avatar updated")
	return nil
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.auth.State()
	if st.Session == nil {
		return nil
	}
	u := st.Session.User
	printlnFn(fmt.Sprintf("%s <%s>", u.Name, u.Email))
	if avatar := u.Avatar(); avatar != "" {
		printlnFn("Avatar:", avatar)
	}
	return nil
}
