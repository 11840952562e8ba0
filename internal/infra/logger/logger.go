package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is the context key carrying the request correlation id.
type RequestIDKey struct{}

var (
	global *zap.Logger
	once   sync.Once
)

// New builds the process-wide logger. Production gets JSON output; everywhere
// else gets the colored console encoder. Repeated calls return the first
// logger built.
func New(env string) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if env != "production" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		global, err = cfg.Build()
	})
	return global, err
}

// WithContext returns the global logger stamped with the request id from ctx.
// Safe to call before New; it falls back to a development logger.
func WithContext(ctx context.Context) *zap.Logger {
	if global == nil {
		fallback, _ := zap.NewDevelopment()
		return fallback
	}
	if ctx == nil {
		return global
	}

	requestID, _ := ctx.Value(RequestIDKey{}).(string)
	return global.With(zap.String("request_id", requestID))
}

// MaskEmail hides the local part of an address beyond its first three
// characters: john.doe@example.com becomes joh***@example.com.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	local, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return "***"
	}
	if len(local) <= 3 {
		return "***@" + domain
	}
	return local[:3] + "***@" + domain
}

// MaskIP keeps the first two IPv4 octets or the first four IPv6 groups.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if octets := strings.Split(ip, "."); len(octets) == 4 {
		return octets[0] + "." + octets[1] + ".*.*"
	}
	if groups := strings.Split(ip, ":"); len(groups) >= 4 {
		return strings.Join(groups[:4], ":") + ":*:*:*:*"
	}
	return "***"
}

// MaskString keeps only the first and last characters of a secret value.
func MaskString(value string) string {
	if len(value) <= 2 {
		return "***"
	}
	return value[:1] + "***" + value[len(value)-1:]
}
