// Package tracer is a small tracing abstraction for corporation lookups.
//
// The verification service emits spans through the Tracer interface so that
// tests run with NoopTracer and production wires OTelTracer.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashCorporationNumber returns a short SHA-256 prefix of number so spans and
// logs can be correlated without carrying the number itself.
func HashCorporationNumber(number string) string {
	if number == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(number))
	return hex.EncodeToString(hash[:8])
}

// Span names.
const (
	SpanVerify     = "corporation.verify"
	SpanLookupCall = "corporation.lookup.call"
)

// Attribute keys.
const (
	AttrCorporationHash = "corporation.hash"
	AttrCacheHit        = "cache.hit"
	AttrAttempt         = "attempt"
	AttrValid           = "valid"
	AttrErrorCategory   = "error.category"
	AttrShared          = "singleflight.shared"
)

// Event names.
const (
	EventRetry = "lookup.retry"
)
