package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/client/validation"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const (
	signInErrorTitle   = "Authentication error"
	signInErrorMessage = "Could not sign in, check your credentials"
)

// SignIn prompts for e-mail and password and starts a session.
//
// Invalid input is reported per field. Any other failure ends in a single
// generic alert; the cause is only logged.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "E-mail", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	credentials := models.Credentials{Email: email, Password: password}
	if err := validation.SignIn(credentials); err != nil {
		printFieldErrors(err)
		return err
	}

	if err := a.auth.SignIn(ctx, credentials); err != nil {
		a.log.Warn(ctx, "sign in failed", "error", err)
		a.Alert(signInErrorTitle, signInErrorMessage)
		return err
	}
	return nil
}

// SignUp prompts for the registration form and creates the account. The
// user stays signed out and is sent back to sign in.
func (a *App) SignUp(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "E-mail", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	err = a.registration.SignUp(ctx, models.SignUp{Name: name, Email: email, Password: password})
	if _, ok := validation.FieldErrors(err); ok {
		printFieldErrors(err)
	}
	return err
}

// SignOut ends the session locally.
func (a *App) SignOut(ctx context.Context) error {
	a.auth.SignOut(ctx)
	a.listed = nil
	return nil
}

// printFieldErrors prints one line per invalid field, sorted by field name.
// It does nothing for errors that are not validation failures.
func printFieldErrors(err error) {
	fields, ok := validation.FieldErrors(err)
	if !ok {
		return
	}
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)
	for _, f := range names {
		printlnFn(fmt.Sprintf("  %s: %s", f, fields[f]))
	}
}
