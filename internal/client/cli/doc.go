// Package cli provides the interactive GoBarber terminal client.
//
// An App is built on top of the API client and the AuthService. The REPL
// offers the sign-in and sign-up screens while no session exists and the
// dashboard, booking, profile and avatar screens once signed in; the
// choice follows routes.Select on every command.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli
