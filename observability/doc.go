// Package observability wires OpenTelemetry tracing and metrics into the
// relay.
//
// Exporters are only created when enabled in configuration; otherwise the
// global no-op providers stay in place and every helper here is safe to call.
//
//	shutdown, err := observability.Setup(ctx, cfg, "webgen", version.Version, "production")
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("webgen"))
//	oc := observability.NewOperationContext("webgen", "generate.chat", requestID, metrics)
//	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanGeneration)
//	defer oc.EndOperation(ctx, span, err)
//
// Health:
//
//	health := observability.NewServiceHealth("webgen", version.Version)
//	health.AddComponent(checker.CheckHealth(ctx))
package observability
