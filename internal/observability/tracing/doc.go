// Package tracing wires OpenTelemetry into the service. Setup installs the
// global tracer provider and W3C propagators; GetTracer is used by the
// refresh, fetch and rank stages to open spans, and Middleware opens one
// server span per HTTP request.
//
//	shutdown := tracing.Setup(tracing.LoadConfigFromEnv(logger), version)
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.GetTracer().Start(ctx, "refresh.Refresh")
//	defer span.End()
package tracing
