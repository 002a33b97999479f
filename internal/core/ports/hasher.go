package ports

// PasswordHasher hashes credentials and verifies them against stored hashes.
// Implementations must never retain or log the plaintext.
type PasswordHasher interface {
	// Hash derives a self-describing hash string from the password.
	Hash(password string) (string, error)

	// Verify reports whether password matches the encoded hash. A mismatch is
	// (false, nil); an unparseable hash is (false, domain.ErrMalformedHash).
	Verify(password, encoded string) (bool, error)
}
