package auth

import (
	"crypto/rand"
	"encoding/base64"
	"io"
)

const CSRFFieldName = "csrf_token"

// Generates a 40-character random token, suitable for session ids, CSRF
// tokens, and OAuth state.
func MakeToken() string {
	tokenBytes := make([]byte, 40)
	_, err := io.ReadFull(rand.Reader, tokenBytes)
	if err != nil {
		panic(err)
	}

	return base64.RawURLEncoding.EncodeToString(tokenBytes)[:40]
}
