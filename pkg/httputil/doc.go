// Package httputil provides retry helpers for dataset downloads.
//
// [Retry] runs a function up to N times with exponential backoff. Only
// failures wrapped in [RetryableError] are retried, so a 404 or a malformed
// URL fails on the first attempt while a timeout or a 503 is tried again:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
package httputil
