// Package httputil provides HTTP utilities for the layout API client.
//
// # Overview
//
// This package provides retry infrastructure for talking to a layout server:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [RetryableError]: Marker for errors worth retrying
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a transient error:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Wrap transient failures with [Retryable] so the loop knows to try again;
// other errors abort immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    if httputil.IsRetryableStatus(resp.StatusCode) {
//	        return httputil.Retryable(fmt.Errorf("server returned %d", resp.StatusCode))
//	    }
//	    return handle(resp)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Max retries: 3
//   - Base backoff: 1 second, doubling each attempt
//
// Use [Retry] directly to pick different attempt counts or delays.
package httputil
