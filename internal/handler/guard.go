package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rohitmp45/ai-interview/internal/oauth"
	"github.com/rohitmp45/ai-interview/internal/service"
	"github.com/rohitmp45/ai-interview/internal/session"
)

// RouteClass statically classifies a page route.
type RouteClass int

const (
	// RoutePublic is reachable only without a session (login, signup).
	RoutePublic RouteClass = iota
	// RoutePrivate requires a session.
	RoutePrivate
	// RouteHybrid is reachable either way.
	RouteHybrid
)

// SessionStatus is the guard's view of the session.
type SessionStatus int

const (
	// StatusUnknown means the session has not been resolved yet.
	StatusUnknown SessionStatus = iota
	// StatusAnonymous means no valid session exists.
	StatusAnonymous
	// StatusAuthenticated means a valid session exists.
	StatusAuthenticated
)

// GuardState is the outcome of evaluating a route against the session.
type GuardState int

const (
	// GuardPending: session status still unknown, render nothing yet.
	GuardPending GuardState = iota
	// GuardDenied: a redirect is in flight.
	GuardDenied
	// GuardAllowed: render the route.
	GuardAllowed
)

// GuardDecision is the evaluated state plus the redirect target when denied.
type GuardDecision struct {
	State      GuardState
	RedirectTo string
}

// PublicLanding and PrivateLanding are the redirect targets for denied routes.
const (
	PublicLanding  = "/login"
	PrivateLanding = oauth.DefaultReturnTo
)

// EvaluateGuard applies the route-guard transition rule: stay pending while
// the session is unresolved, deny private routes to anonymous visitors and
// public routes to authenticated ones, allow everything else.
func EvaluateGuard(class RouteClass, status SessionStatus) GuardDecision {
	if status == StatusUnknown {
		return GuardDecision{State: GuardPending}
	}

	switch {
	case class == RoutePrivate && status == StatusAnonymous:
		return GuardDecision{State: GuardDenied, RedirectTo: PublicLanding}
	case class == RoutePublic && status == StatusAuthenticated:
		return GuardDecision{State: GuardDenied, RedirectTo: PrivateLanding}
	default:
		return GuardDecision{State: GuardAllowed}
	}
}

// PageGuard gates a page route by its class. The session resolves
// synchronously on the server, so the pending state never surfaces here; it
// exists for clients that resolve the session asynchronously.
func PageGuard(class RouteClass, sessions *session.Manager, auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			status := StatusAnonymous
			if claims, err := sessions.FromRequest(c.Request()); err == nil {
				if _, err := auth.UserFromClaims(c.Request().Context(), claims); err == nil {
					status = StatusAuthenticated
				}
			}

			decision := EvaluateGuard(class, status)
			if decision.State == GuardDenied {
				return c.Redirect(http.StatusFound, decision.RedirectTo)
			}
			return next(c)
		}
	}
}
