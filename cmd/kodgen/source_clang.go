//go:build clang

package main

import (
	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/clangsource"
)

// newSource backs the CLI with real libclang indexing when built with
// `-tags clang` (requires libclang to be installed and discoverable by
// cgo, per clangsource's own doc comment).
func newSource() (astsource.Source, error) {
	return clangsource.New(), nil
}
