package core

import "fmt"

// Credentials holds a single API key pair. Callers supply them per request;
// nothing in this module stores or caches them.
type Credentials struct {
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key"`
	// SecretKey is the private key used for signing requests.
	SecretKey string `json:"secret_key"`
}

// Empty reports whether no key material is present.
func (c Credentials) Empty() bool {
	return c.APIKey == "" && c.SecretKey == ""
}

// String masks the key so credentials never land in logs verbatim.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Key:%s}", maskKey(c.APIKey))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
