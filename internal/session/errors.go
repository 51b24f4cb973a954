package session

import "errors"

// ErrRefreshFailed reports that a credential refresh could not complete. The
// stored pair has been cleared by the time this error is observed; the only
// way forward is a fresh login.
var ErrRefreshFailed = errors.New("session: refresh failed")
