// Package loadfile builds the OPT and DAT manifests consumed by legal
// review platforms. Both are positional legacy formats whose output is
// byte-for-byte significant, so records are formatted by hand rather than
// through a generic encoder.
package loadfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// WindowsRelPath returns path relative to root using Windows separators,
// the form review platforms expect inside load files.
func WindowsRelPath(path, root string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s against %s: %w", path, root, err)
	}
	return strings.ReplaceAll(rel, "/", `\`), nil
}
