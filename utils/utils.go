package utils

import "golang.org/x/crypto/bcrypt"

const BcryptCost = 12

// HashPin hashes the admin PIN for storage in configuration.
func HashPin(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), BcryptCost)
	return string(bytes), err
}

func CheckPinHash(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
