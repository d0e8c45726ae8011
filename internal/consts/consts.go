package consts

import (
	"os"
	"path/filepath"
)

const Name = "rivet"

// TokenEnvVars are checked in order before falling back to the keyring.
var TokenEnvVars = []string{"RIVET_TOKEN", "DISCORD_TOKEN"}

var CacheDir string

func init() {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	CacheDir = filepath.Join(dir, Name)
	os.MkdirAll(CacheDir, 0o700)
}
