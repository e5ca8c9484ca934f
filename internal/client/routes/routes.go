// Package routes decides which screen tree the client shows for a session
// state.
package routes

import (
	"sync"

	"github.com/dmitrijs2005/gobarber/internal/client/services"
)

type Route int

const (
	RouteLoading Route = iota
	RouteAuth
	RouteApp
)

func (r Route) String() string {
	switch r {
	case RouteLoading:
		return "loading"
	case RouteAuth:
		return "auth"
	case RouteApp:
		return "app"
	default:
		return "unknown"
	}
}

// Select maps a session state to a route. Loading wins over everything:
// no tree is chosen before the stored session has been read.
func Select(st services.State) Route {
	switch {
	case st.Loading:
		return RouteLoading
	case st.Session != nil:
		return RouteApp
	default:
		return RouteAuth
	}
}

// StateSource is the read side of services.AuthService.
type StateSource interface {
	State() services.State
	Subscribe(fn func(services.State)) (unsubscribe func())
}

// Watch calls fn with the route for the current state and again each time
// the route changes. The returned func stops watching.
func Watch(src StateSource, fn func(Route)) (stop func()) {
	if src == nil {
		panic("routes: Watch called without a session source")
	}

	var (
		mu       sync.Mutex
		last     Route
		reported bool
	)
	report := func(r Route, initial bool) {
		mu.Lock()
		defer mu.Unlock()
		if reported && (initial || r == last) {
			return
		}
		last, reported = r, true
		fn(r)
	}

	// subscribe before reading the state so no change is missed in between
	stop = src.Subscribe(func(st services.State) { report(Select(st), false) })
	report(Select(src.State()), true)
	return stop
}
