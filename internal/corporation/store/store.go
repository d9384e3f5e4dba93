// Package store caches corporation lookup results by number.
//
// Only registry verdicts are cached. Failures are never stored, so a number
// whose lookup failed is looked up again on the next verification.
package store

import "errors"

// ErrNotFound is returned on a cache miss, including expired entries.
var ErrNotFound = errors.New("not found")
