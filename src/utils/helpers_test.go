package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var cryptoKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	msg := `{"reservationId":1,"reservationRef":"ref"}`
	enc, err := EncryptMessage(cryptoKey, msg)
	assert.Nil(t, err)
	assert.NotEqual(t, msg, enc)

	dec, err := DecryptMessage(cryptoKey, enc)
	assert.Nil(t, err)
	assert.Equal(t, msg, *dec)
}

func TestDecryptMessageRejectsShortCiphertext(t *testing.T) {
	// shorter than the GCM nonce must error, not slice out of range
	_, err := DecryptMessage(cryptoKey, "abcd")
	assert.NotNil(t, err)

	_, err = DecryptMessage(cryptoKey, "")
	assert.NotNil(t, err)
}

func TestDecryptMessageRejectsBadHex(t *testing.T) {
	_, err := DecryptMessage(cryptoKey, "not-hex")
	assert.NotNil(t, err)
}

func TestDecryptMessageRejectsTampering(t *testing.T) {
	enc, err := EncryptMessage(cryptoKey, "payload")
	assert.Nil(t, err)
	b := []byte(enc)
	if b[len(b)-1] == '0' {
		b[len(b)-1] = '1'
	} else {
		b[len(b)-1] = '0'
	}
	_, err = DecryptMessage(cryptoKey, string(b))
	assert.NotNil(t, err)
}
