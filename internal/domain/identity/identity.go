package identity

// Role values supplied by the upstream authorization collaborator.
const (
	RoleClient   = "cliente"
	RoleOperator = "operador"
	RoleAdmin    = "admin"
)

// Actor is the authenticated identity behind a request. Credentials are
// verified upstream; this core trusts what it is handed.
type Actor struct {
	UserID string
	Role   string
}

// CanManage reports whether the actor may operate on a reservation owned by
// ownerID. Clients manage only their own; staff roles manage any.
func (a Actor) CanManage(ownerID string) bool {
	if a.Role != RoleClient {
		return true
	}
	return ownerID == "" || ownerID == a.UserID
}
