// Package models defines the data exchanged with the GoBarber API and kept
// in the local session.
package models

// User is the authenticated account as returned by the API. The client never
// edits it in place; profile updates replace the whole value.
type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

// Avatar returns the avatar URL or an empty string when none is set.
func (u User) Avatar() string {
	if u.AvatarURL == nil {
		return ""
	}
	return *u.AvatarURL
}

// Session is the authenticated identity of the running client. A Session
// always carries both fields; "no session" is a nil *Session.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Credentials are the sign-in input. They are never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp is the registration form.
type SignUp struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the profile form. Password fields are optional; when
// Password is set OldPassword and PasswordConfirmation are required.
type ProfileUpdate struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	OldPassword          string `json:"old_password,omitempty"`
	Password             string `json:"password,omitempty"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
}
