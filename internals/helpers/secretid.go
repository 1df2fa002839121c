package helper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tuomas2/serviceform/internals/configs"
)

// EncodeSecretID obfuscates an integer primary key for use in emailed
// links (unsubscribe etc). The id is offset, rendered in octal, reversed,
// and every even digit is replaced by a letter. Not cryptography, just
// enough to keep ids from being guessable by incrementing.
func EncodeSecretID(id int64) string {
	letters := configs.CodeLetters
	digits := []byte(fmt.Sprintf("%o", 100000+id))
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	result := string(digits)
	for ii := 0; ii < 9; ii += 2 {
		result = strings.Replace(result, strconv.Itoa(ii), string(letters[ii/2]), 1)
	}
	return result
}

// DecodeSecretID reverses EncodeSecretID. Returns -1 for malformed input.
func DecodeSecretID(code string) int64 {
	if code == "" {
		return -1
	}
	letters := configs.CodeLetters
	for ii := 0; ii < 9; ii += 2 {
		code = strings.Replace(code, string(letters[ii/2]), strconv.Itoa(ii), 1)
	}
	digits := []byte(code)
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	result, err := strconv.ParseInt(string(digits), 8, 64)
	if err != nil {
		return -1
	}
	result -= 100000
	if result < 0 {
		return -1
	}
	return result
}
