package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuomas2/serviceform/internals/configs"
)

func TestSecretIDRoundTrip(t *testing.T) {
	configs.CodeLetters = "xiuql"

	for _, id := range []int64{0, 1, 7, 8, 42, 1000, 99999, 1 << 30} {
		code := EncodeSecretID(id)
		assert.Equal(t, id, DecodeSecretID(code), "id %d via %q", id, code)
	}
}

func TestSecretIDHidesRawDigits(t *testing.T) {
	configs.CodeLetters = "xiuql"

	// Octal digits 0,2,4,6 appear at most once each after encoding; the
	// first occurrence is always replaced by a letter.
	code := EncodeSecretID(1)
	assert.NotEmpty(t, code)
	assert.NotEqual(t, code, EncodeSecretID(2))
}

func TestDecodeSecretIDMalformed(t *testing.T) {
	configs.CodeLetters = "xiuql"

	assert.Equal(t, int64(-1), DecodeSecretID(""))
	assert.Equal(t, int64(-1), DecodeSecretID("zzzz"))
	assert.Equal(t, int64(-1), DecodeSecretID("99999"))
}
