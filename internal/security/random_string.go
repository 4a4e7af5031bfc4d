package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Ambiguous characters (0/O, 1/l/I) are excluded so a password read out loud
// or copied from a terminal survives the trip.
const (
	tempPasswordUpper  = "ABCDEFGHJKMNPQRSTUVWXYZ"
	tempPasswordLower  = "abcdefghjkmnpqrstuvwxyz"
	tempPasswordDigits = "23456789"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	errLengthTooShort = errors.New("length must fit one character of every class")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}

// TempPassword returns a random password of the requested length carrying at
// least one uppercase letter, one lowercase letter and one digit, so it always
// clears the password policy.
func TempPassword(length int) (string, error) {
	classes := []string{tempPasswordUpper, tempPasswordLower, tempPasswordDigits}
	if length < len(classes) {
		return "", errLengthTooShort
	}

	picks := make([]byte, 0, length)
	for _, alphabet := range classes {
		char, err := RandomString(1, alphabet)
		if err != nil {
			return "", err
		}
		picks = append(picks, char[0])
	}
	rest, err := RandomString(length-len(picks), tempPasswordUpper+tempPasswordLower+tempPasswordDigits)
	if err != nil {
		return "", err
	}
	picks = append(picks, rest...)

	// Unbiased Fisher-Yates shuffle so the guaranteed classes are not
	// predictably at the front.
	for index := len(picks) - 1; index > 0; index-- {
		swap, err := rand.Int(rand.Reader, big.NewInt(int64(index+1)))
		if err != nil {
			return "", err
		}
		other := int(swap.Int64())
		picks[index], picks[other] = picks[other], picks[index]
	}

	return string(picks), nil
}
