// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = time.Hour

// DateLayout is the calendar-date format used throughout the booking engine.
const DateLayout = "2006-01-02"

// ClockLayout is the wall-clock format used by schedule start times.
const ClockLayout = "15:04"
