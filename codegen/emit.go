package codegen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-kodgen/kodgen/entity"
)

// emitFile writes contents to path atomically: to a temporary file in the
// same directory, then os.Rename into place, so a failed write or a crash
// mid-write never leaves a half-written artifact a downstream build would
// consume (§9 "Emission atomicity"). Every failure surfaces as an
// OutputWriteFailed KodgenError (§7) wrapping the underlying os error.
func emitFile(path string, contents []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &entity.KodgenError{Kind: entity.ErrOutputWriteFailed, Location: entity.SourceLocation{File: path}, Message: fmt.Sprintf("creating %s", dir), Cause: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return &entity.KodgenError{Kind: entity.ErrOutputWriteFailed, Location: entity.SourceLocation{File: path}, Message: fmt.Sprintf("creating temp file in %s", dir), Cause: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &entity.KodgenError{Kind: entity.ErrOutputWriteFailed, Location: entity.SourceLocation{File: path}, Message: fmt.Sprintf("writing %s", tmpPath), Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &entity.KodgenError{Kind: entity.ErrOutputWriteFailed, Location: entity.SourceLocation{File: path}, Message: fmt.Sprintf("closing %s", tmpPath), Cause: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &entity.KodgenError{Kind: entity.ErrOutputWriteFailed, Location: entity.SourceLocation{File: path}, Message: fmt.Sprintf("renaming %s to %s", tmpPath, path), Cause: err}
	}
	return nil
}
