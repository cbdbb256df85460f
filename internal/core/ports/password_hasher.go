package ports

// PasswordHasher is a salted, adaptive one-way hash. Hash produces a
// different opaque value on every call for the same input (per-call salt);
// Verify compares in time independent of where a mismatch occurs.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(raw, encoded string) bool
}
