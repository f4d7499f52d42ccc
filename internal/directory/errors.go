package directory

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches HTTPErrors carrying a 404.
var ErrNotFound = errors.New("directory: user not found")

// HTTPError is returned when the Remote Directory answers with a status >= 400.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("directory %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("directory %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
