// Package cache provides the slot stores the loader persists raw feed
// bodies into, plus the default URL-to-slot resolution.
package cache

import "errors"

// ErrNotCached is returned by Read for a slot that has never been written.
var ErrNotCached = errors.New("slot has never been written")
