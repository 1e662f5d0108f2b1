// Package projectpath resolves the repository root so .env and fixtures load regardless of
// the working directory the binary or tests are started from.
package projectpath

import (
	"path/filepath"
	"runtime"
)

var (
	_, b, _, _ = runtime.Caller(0)

	// Root is the root directory of this project.
	Root = filepath.Join(filepath.Dir(b), "../../..")
)
