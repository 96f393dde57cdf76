package entity

// Identity is the caller identity carried by a verified session token.
// It is trusted as of mint time and is never re-checked against the store.
type Identity struct {
	AccountID int64
	Email     string
	Role      Role
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
