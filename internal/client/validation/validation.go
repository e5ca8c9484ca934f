// Package validation checks form input before it is sent to the API.
//
// Failures are reported as Errors, a field -> message map, so screens can
// annotate the offending fields instead of raising a generic alert.
package validation

import (
	"errors"
	"net/mail"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gobarber/internal/client/models"
)

const MinPasswordLength = 6

const (
	msgNameRequired         = "Name is required"
	msgEmailRequired        = "E-mail is required"
	msgEmailInvalid         = "Enter a valid e-mail"
	msgPasswordRequired     = "Password is required"
	msgPasswordTooShort     = "Enter at least 6 characters"
	msgOldPasswordRequired  = "Current password is required to set a new one"
	msgConfirmationMismatch = "Passwords do not match"
)

// Errors maps a form field name to its first failing rule.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add keeps the first message per field.
func (e Errors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// FieldErrors extracts the field map from err. ok is false when err is not
// a validation failure.
func FieldErrors(err error) (Errors, bool) {
	var v Errors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

func SignIn(c models.Credentials) error {
	errs := Errors{}
	checkEmail(errs, c.Email)
	if c.Password == "" {
		errs.add("password", msgPasswordRequired)
	}
	return errs.orNil()
}

func SignUp(f models.SignUp) error {
	errs := Errors{}
	if strings.TrimSpace(f.Name) == "" {
		errs.add("name", msgNameRequired)
	}
	checkEmail(errs, f.Email)
	if len(f.Password) < MinPasswordLength {
		errs.add("password", msgPasswordTooShort)
	}
	return errs.orNil()
}

// Profile validates the profile form. The password block is optional, but
// once a new password is given the current one and a matching confirmation
// are required.
func Profile(f models.ProfileUpdate) error {
	errs := Errors{}
	if strings.TrimSpace(f.Name) == "" {
		errs.add("name", msgNameRequired)
	}
	checkEmail(errs, f.Email)

	if f.Password != "" || f.OldPassword != "" || f.PasswordConfirmation != "" {
		if f.OldPassword == "" {
			errs.add("old_password", msgOldPasswordRequired)
		}
		if len(f.Password) < MinPasswordLength {
			errs.add("password", msgPasswordTooShort)
		}
		if f.PasswordConfirmation != f.Password {
			errs.add("password_confirmation", msgConfirmationMismatch)
		}
	}
	return errs.orNil()
}

func checkEmail(errs Errors, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.add("email", msgEmailRequired)
		return
	}
	addr, err := mail.ParseAddress(email)
	// reject "Name <a@b.c>" forms; the field takes a bare address
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		errs.add("email", msgEmailInvalid)
	}
}
