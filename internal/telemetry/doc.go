// Package telemetry provides OpenTelemetry instrumentation for taskwave.
//
// # Overview
//
// Traces, metrics and logs are exported over OTLP (gRPC or HTTP/protobuf) to
// a collector. Logs arrive through the zap bridge in internal/logging, fed by
// LoggerProvider. When telemetry is disabled, Tracer and Meter fall back to
// the global no-op providers and LoggerProvider is nil.
//
// # Usage
//
//	cfg := telemetry.FromAppConfig(appCfg.Telemetry)
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	ctx, span := tel.Tracer("taskwave.tracker").Start(ctx, "tracker.Complete")
//	defer span.End()
//
// # Testing
//
// NewTestTelemetry records spans and log records in memory and exposes a
// manual metric reader:
//
//	tt := telemetry.NewTestTelemetry()
//	svc := tracker.New(store, tracker.WithTelemetry(tt.Telemetry))
//	tt.AssertSpanExists(t, "tracker.Complete")
package telemetry
