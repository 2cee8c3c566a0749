package tool

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateCheckoutToken returns an opaque hex token used to link a payment
// session to its pending provisioning request. 32 random bytes, single use.
func GenerateCheckoutToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// rand.Read does not fail on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}
