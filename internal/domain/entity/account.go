package entity

const (
	// MinPasswordLength is the shortest password accepted at registration or creation.
	MinPasswordLength = 6
	// MinAccountNameLength is the shortest display name accepted.
	MinAccountNameLength = 2
)

// Account is an identity record in the credential store.
type Account struct {
	ID           int64
	Name         string
	Email        string  // unique, compared case-sensitively
	PasswordHash *string // nil means password login is disabled
	Role         Role
}

// CanAuthenticate reports whether the account has a usable password hash.
func (a *Account) CanAuthenticate() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}

// IsAdmin reports whether the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Identity returns the claims that get embedded in a session token.
func (a *Account) Identity() Identity {
	return Identity{
		AccountID: a.ID,
		Email:     a.Email,
		Role:      a.Role,
	}
}
