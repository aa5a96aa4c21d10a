// Package requestid generates request ids and carries them in a context.
package requestid

import (
	"context"
	"encoding/binary"
	"strconv"

	"github.com/oklog/ulid/v2"
)

type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

// New returns a request id made of the low 64 bits of a fresh ULID: 16 bits
// of its timestamp followed by 48 random bits.
func New() uint64 {
	id := ulid.Make()
	return binary.BigEndian.Uint64(id[8:])
}

// InjectRequestID stores requestID in ctx.
func InjectRequestID(ctx context.Context, requestID uint64) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ExtractRequestID returns the request id stored in ctx, or 0.
func ExtractRequestID(ctx context.Context) uint64 {
	if v, ok := ctx.Value(requestIDKey).(uint64); ok {
		return v
	}
	return 0
}

// String returns the request id of ctx formatted for error bodies.
func String(ctx context.Context) string {
	return strconv.FormatUint(ExtractRequestID(ctx), 10)
}
