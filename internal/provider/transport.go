package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// isoMillis matches the millisecond-precision UTC timestamps the REST
// backends exchange, e.g. "2024-01-01T00:00:00.000Z".
const isoMillis = "2006-01-02T15:04:05.000Z"

// do executes the request and decodes a 2xx JSON response into out. Any
// non-2xx status surfaces as an error carrying the method, path, status and
// body; no further interpretation happens here.
func do(client *http.Client, req *http.Request, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: %s: %s", req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// formatISO renders a timestamp the way the REST backends expect it.
func formatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// parseISO turns a backend timestamp string into a canonical date. Empty
// strings mean "no date" and yield nil.
func parseISO(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %v", value, err)
	}
	return &t, nil
}

// unixDate turns a Unix-seconds timestamp into a canonical date. Zero means
// "no date" and yields nil.
func unixDate(seconds int64) *time.Time {
	if seconds == 0 {
		return nil
	}
	t := time.Unix(seconds, 0).UTC()
	return &t
}
