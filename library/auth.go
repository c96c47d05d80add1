package library

import "golang.org/x/crypto/bcrypt"

// hashPassword produces a one-way digest stored in place of the plaintext.
func hashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// checkPassword reports whether password matches the stored digest.
func checkPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
