// internal/app/system/authutil/authutil.go
package authutil

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the work factor used when hashing passwords.
const BcryptCost = 12

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
