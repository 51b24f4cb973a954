package session

import (
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/bookingapi"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/claimsx"
)

// State is a snapshot of the session as the dashboards see it. Values are
// copies; mutating a returned State never affects the Manager.
type State struct {
	Authenticated bool
	Loading       bool
	Claims        claimsx.Claims
	Permissions   map[string]bookingapi.Permission

	// Err holds the human-readable message of the last failed login or
	// refresh, empty otherwise.
	Err string
}

// The transition helpers below are pure: they take the prior state and return
// the next one, leaving the input untouched.

func loginPending(s State) State {
	s.Loading = true
	s.Err = ""
	return s
}

func loginFulfilled(s State, claims claimsx.Claims, perms map[string]bookingapi.Permission) State {
	s.Authenticated = true
	s.Loading = false
	s.Err = ""
	s.Claims = claims
	if perms != nil {
		s.Permissions = perms
	}
	return s
}

// loginRejected records the failure without touching the authenticated flag:
// a failed re-login attempt does not tear down an existing session.
func loginRejected(s State, msg string) State {
	s.Loading = false
	s.Err = msg
	return s
}

// sessionInvalidated is the terminal transition after a failed refresh: the
// stored pair is gone, so everything resets except the failure message.
func sessionInvalidated(_ State, msg string) State {
	return State{Err: msg}
}

func loggedOut(State) State {
	return State{}
}

func identityUpdated(s State, identity bookingapi.Identity, perms map[string]bookingapi.Permission) State {
	s.Claims.UserID = identity.ID
	s.Claims.UserName = identity.UserName
	s.Claims.RoleID = identity.RoleID
	s.Claims.IsAdmin = identity.IsAdmin
	s.Claims.IsActive = identity.IsActive
	if perms != nil {
		s.Permissions = perms
	}
	return s
}

// clone returns a deep copy safe to hand out of the Manager's lock.
func (s State) clone() State {
	out := s
	if s.Permissions != nil {
		out.Permissions = make(map[string]bookingapi.Permission, len(s.Permissions))
		for k, v := range s.Permissions {
			out.Permissions[k] = v
		}
	}
	return out
}
