package proxy

import "log/slog"

// BestEffort runs a side-channel stage (rate limiting, caching, usage
// recording) and swallows its error. Store outages must not take the
// request path down with them: the stage logs its failure and the
// pipeline continues with the fallback value.
func BestEffort[T any](logger *slog.Logger, stage string, fallback T, fn func() (T, error)) T {
	result, err := fn()
	if err != nil {
		logger.Warn("stage failed, continuing without it", "stage", stage, "error", err)
		return fallback
	}
	return result
}

// BestEffortRun is BestEffort for stages with no result, such as a cache
// write or a usage update.
func BestEffortRun(logger *slog.Logger, stage string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("stage failed, continuing without it", "stage", stage, "error", err)
	}
}
