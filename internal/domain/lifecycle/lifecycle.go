// Package lifecycle centralizes timeouts used by application start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds how long a single lifecycle hook may run.
const DefaultTimeout = 10 * time.Second
