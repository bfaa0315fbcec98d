package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level. Failed
// generations and rate limited requests are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnGenerateStart(_ context.Context, shape string, width, height int, seed uint64) {
	h.logger.Debug("generation started", "shape", shape, "width", width, "height", height, "seed", seed)
}

func (h *LogHooks) OnAttemptFailed(_ context.Context, attempt int, empire string) {
	h.logger.Debug("attempt discarded", "attempt", attempt, "empire", empire)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, attempts int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Warn("generation failed", "attempts", attempts, "duration", duration, "err", err)
		return
	}
	h.logger.Debug("generation finished", "attempts", attempts, "duration", duration)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", statusCode, "duration", duration)
}

func (h *LogHooks) OnRateLimited(_ context.Context, remote string) {
	h.logger.Warn("rate limited", "remote", remote)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
