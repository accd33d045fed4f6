package services

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	deviceIDKey
)

// WithRequestID annotates ctx with a correlation identifier. Empty ids are ignored.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, requestIDKey)
}

// WithDeviceID records the identifier the display sends in its ID header.
func WithDeviceID(ctx context.Context, id string) context.Context {
	return withString(ctx, deviceIDKey, id)
}

func DeviceIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, deviceIDKey)
}

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}
