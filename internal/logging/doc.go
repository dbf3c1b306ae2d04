// Package logging provides structured logging for taskwave.
//
// The Logger wraps Zap with:
//   - a Trace level below Debug
//   - stdout output with optional OpenTelemetry log bridge
//   - request and trace correlation pulled from the context
//   - redaction of sensitive keys and value patterns
//   - level-aware sampling (errors are never sampled)
//
// Usage:
//
//	logger, err := logging.NewLogger(logging.NewDefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, requestID)
//	logger.Info(ctx, "task completed", zap.Int("task.id", id))
package logging
