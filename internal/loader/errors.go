package loader

import (
	"errors"
	"fmt"
)

// ErrNotExist is returned when a source file is absent.
var ErrNotExist = errors.New("source file does not exist")

// DownloadError is returned when the remote source answers with a non-2xx
// status.
type DownloadError struct {
	Path       string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download file: %s, status code: %d", e.Path, e.StatusCode)
}

// Is matches ErrNotExist for 404 responses.
func (e *DownloadError) Is(target error) bool {
	return target == ErrNotExist && e.StatusCode == 404
}
