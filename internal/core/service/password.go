package service

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest. Each call salts freshly, so
// the same plaintext never hashes to the same digest twice.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored digest. A
// malformed digest is a verification failure, not a fault.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
