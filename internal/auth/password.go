package auth

import "golang.org/x/crypto/bcrypt"

// MinCost is the weakest bcrypt cost accepted for new hashes.
const MinCost = 12

// HashPassword hashes a plaintext password with bcrypt. Costs below
// MinCost are raised to it.
func HashPassword(password string, cost int) ([]byte, error) {
	if cost < MinCost {
		cost = MinCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

// CheckPasswordHash reports whether password matches the stored hash.
func CheckPasswordHash(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
