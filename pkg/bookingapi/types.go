package bookingapi

// Identity describes the authenticated user as reported by the booking API on
// login. It mirrors the claim fields embedded in the access credential.
type Identity struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	RoleID   int64  `json:"roleId"`
	IsAdmin  bool   `json:"isAdmin"`
	IsActive bool   `json:"isActive"`
}

// Permission is a UI visibility hint keyed by permission name. The server
// stays authoritative; the dashboards only use these to hide controls.
type Permission struct {
	CanAccess      bool `json:"canAccess"`
	MustCheckOwner bool `json:"mustCheckOwner"`
}

// LoginRequest carries the user's credentials to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login: the credential pair plus
// the identity and optional permission hints for the dashboards.
type LoginResponse struct {
	AccessCredential  string                `json:"accessCredential"`
	RefreshCredential string                `json:"refreshCredential"`
	Identity          Identity              `json:"identity"`
	Permissions       map[string]Permission `json:"permissions,omitempty"`
}

// RefreshResponse is returned by the refresh endpoint. Both values must be
// present; an incomplete pair is treated as a refresh failure by callers.
type RefreshResponse struct {
	AccessCredential  string `json:"accessCredential"`
	RefreshCredential string `json:"refreshCredential"`
}
