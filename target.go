package volley

import (
	"errors"
	"net/url"
	"time"
)

// TargetStats is the counter state of one target at the time it was read.
type TargetStats struct {
	// URL is the probed URL.
	URL string

	// Requests is the number of probes sent to the target.
	Requests uint64

	// Failures is the number of probes counted as failures. Never exceeds Requests.
	Failures uint64
}

// BatchStats summarises one drained batch.
type BatchStats struct {
	// ID is a unique identifier for the batch, as it appears in debug logs.
	ID string

	// Seq is the 1-based batch number.
	Seq uint64

	// Size is the number of probes in the batch.
	Size int

	// Failures is the number of probes in this batch counted as failures.
	Failures int

	// Duration is the time from dispatch until the last probe returned.
	Duration time.Duration
}

// ValidateURL checks that raw is an absolute http or https URL with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid url: " + err.Error())
	}
	if parsed.Scheme == "" {
		return errors.New("url must have a scheme (http:// or https://)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url scheme must be http or https, got " + parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("url must have a host")
	}
	return nil
}
