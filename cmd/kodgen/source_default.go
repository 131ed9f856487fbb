//go:build !clang

package main

import (
	"fmt"

	"github.com/go-kodgen/kodgen/astsource"
)

// newSource reports a clear setup error on a plain `go build`: libclang
// indexing requires cgo and the "clang" build tag (source_clang.go), which
// a default build deliberately doesn't force on every contributor.
func newSource() (astsource.Source, error) {
	return nil, fmt.Errorf("kodgen: built without libclang support; rebuild with -tags clang")
}
