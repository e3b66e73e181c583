// services/retry.go
package services

import (
	"errors"
	"strings"
	"time"

	"teamhq/models"
)

// withTransientRetry reruns fn on transient persistence failures with a short
// linear backoff. Non-transient errors surface immediately.
func withTransientRetry(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
	return err
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	// App-level errors are final by definition
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"deadlock", "connection reset", "connection refused", "broken pipe", "timeout", "too many clients"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
