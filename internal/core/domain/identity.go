package domain

// Client-side role vocabulary. The upstream API reports editors as
// "producer"; NewIdentity rewrites that at the single point where an
// Identity is built, so nothing else ever branches on the raw value.
const (
	RoleGuest  = "guest"
	RoleUser   = "user"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

const serverRoleProducer = "producer"

// Identity models the authenticated user as reported by the upstream
// identity endpoint, with the role already normalized.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// NewIdentity builds an Identity from raw upstream fields.
func NewIdentity(id int64, username, email, rawRole string) *Identity {
	return &Identity{
		ID:       id,
		Username: username,
		Email:    email,
		Role:     NormalizeRole(rawRole),
	}
}

// NormalizeRole maps the upstream role vocabulary to the client one:
// "producer" becomes "editor", every other value passes through.
func NormalizeRole(raw string) string {
	if raw == serverRoleProducer {
		return RoleEditor
	}
	return raw
}
