package remote

import "fmt"

// HTTPError is a non-2xx reply from the model server.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("model server http error: status=%d body=%s", e.StatusCode, e.Body)
}
