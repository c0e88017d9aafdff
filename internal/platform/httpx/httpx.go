package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StatusError reports a non-2xx response from an upstream collaborator.
// Callers inspect Code to distinguish rate limiting from denial.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Body)
}

// NewRequest builds a JSON GET/POST request bound to ctx.
func NewRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Do executes the request and converts error statuses into *StatusError.
// There is no retry here: failures are surfaced to the caller, who decides
// whether to try again with refined input.
func Do(client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}
