package generate

import (
	"os"

	"github.com/kbukum/webgen/util"
)

// Credentials supplies the upstream API key.
type Credentials interface {
	APIKey() (string, bool)
}

// EnvCredentials reads the key from the named environment variable on every
// call, so a missing key is reported per request rather than at startup.
type EnvCredentials string

// APIKey returns the sanitized value of the variable and whether it is set.
func (e EnvCredentials) APIKey() (string, bool) {
	key := util.SanitizeEnvValue(os.Getenv(string(e)))
	return key, key != ""
}

// StaticCredentials always returns the same key. An empty key means missing.
type StaticCredentials string

func (s StaticCredentials) APIKey() (string, bool) {
	return string(s), s != ""
}
