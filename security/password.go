package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordCost      = 8
	generatedLength   = 8
	generatedAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// GenerateRandomPassword returns the system password mailed to a new employee.
func GenerateRandomPassword() (string, error) {
	max := big.NewInt(int64(len(generatedAlphabet)))
	out := make([]byte, generatedLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = generatedAlphabet[n.Int64()]
	}
	return string(out), nil
}
