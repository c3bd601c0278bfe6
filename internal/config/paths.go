package config

import (
	"os"
	"path/filepath"
	"strings"
)

// expandPath expands $VAR references and a leading "~" or "~/". Paths
// such as "~bob/x" are left alone.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	rest, ok := strings.CutPrefix(p, "~")
	if !ok || (rest != "" && !os.IsPathSeparator(rest[0])) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

// resolvePath expands p and makes it absolute relative to root.
func resolvePath(p, root string) string {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
