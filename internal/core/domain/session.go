package domain

// Session is a point-in-time snapshot of the session manager's state.
// The raw credential is never serialized in responses.
type Session struct {
	Token         string    `json:"-"`
	Authenticated bool      `json:"authenticated"`
	User          *Identity `json:"user,omitempty"`
	Loading       bool      `json:"loading"`
	Error         string    `json:"error,omitempty"`
}
