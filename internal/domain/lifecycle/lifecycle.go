// Package lifecycle holds shared timings for process start and stop.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of delivery servers.
const DefaultTimeout = 10 * time.Second
