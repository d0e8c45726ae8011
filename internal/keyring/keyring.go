package keyring

import (
	"errors"
	"os"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/m96-chan/rivet/internal/consts"
)

const tokenUser = "token"

// ErrNoToken is returned when no token is found in the environment or the
// system keyring.
var ErrNoToken = errors.New("no token: set RIVET_TOKEN or DISCORD_TOKEN, or run `rivet token set`")

// GetToken returns the authentication token from the first non-empty
// variable in consts.TokenEnvVars, falling back to the system keyring.
func GetToken() (string, error) {
	for _, name := range consts.TokenEnvVars {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}

	token, err := gokeyring.Get(consts.Name, tokenUser)
	if errors.Is(err, gokeyring.ErrNotFound) || (err == nil && token == "") {
		return "", ErrNoToken
	}
	return token, err
}

// SetToken stores the token in the system keyring.
func SetToken(token string) error {
	return gokeyring.Set(consts.Name, tokenUser, token)
}

// DeleteToken removes the token from the system keyring.
func DeleteToken() error {
	return gokeyring.Delete(consts.Name, tokenUser)
}
