// FILE: lixenwraith/layercfg/timing.go
package layercfg

import "time"

// Core timing constants for resource fetching.
const (
	DefaultFetchTimeout = 10 * time.Second       // Whole-request budget for one URL fetch attempt
	DefaultRetryWaitMin = 250 * time.Millisecond // First backoff between URL fetch attempts
	DefaultRetryWaitMax = 2 * time.Second        // Backoff ceiling
)

// Size limits.
const (
	DefaultMaxResourceSize int64 = 10 << 20 // 10 MiB per resource
	DefaultRetryMax              = 2        // Retries after the first URL fetch attempt
)
