package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password. Used by the hashpw helper to
// produce the ADMIN_PASSWORD_HASH value.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
