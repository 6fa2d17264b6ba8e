package cue

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed banks/*.yaml
var BanksFS embed.FS

// Load reads a bank from dir on disk, falling back to the embedded banks.
func Load(dir, name string) ([]byte, error) {
	clean := cleanBankPath(name)
	if dir != "" {
		if data, err := os.ReadFile(diskBankPath(dir, clean)); err == nil {
			return data, nil
		}
	}
	return BanksFS.ReadFile("banks/" + clean)
}

func cleanBankPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "banks/"); ok {
		s = after
	}
	return s
}

func diskBankPath(dir, clean string) string {
	return filepath.Join(dir, filepath.FromSlash(clean))
}
