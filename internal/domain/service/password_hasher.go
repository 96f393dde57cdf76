// Package service declares domain services whose implementations live in infra.
package service

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	// Hash returns a salted hash of password.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. A malformed hash never matches.
	Check(password, hash string) bool
}
