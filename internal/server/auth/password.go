package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor used for new hashes. The cost is
// self-describing (embedded in the hash string), so raising it later keeps
// previously stored hashes verifiable.
const DefaultBcryptCost = 10

// HashPassword produces a salted bcrypt hash of password. The salt is
// random per call, so hashing the same password twice yields different
// output.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash, comparing in
// constant time using the salt and cost embedded in the hash. A malformed
// hash is treated as a mismatch, never an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
