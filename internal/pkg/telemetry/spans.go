package telemetry

// Instrumentation scopes and span names.
const (
	ScopeUsecases  = "trailmatch/usecases"
	ScopeProviders = "trailmatch/providers"

	SpanTrailSearch   = "TrailService.Search"
	SpanResolveText   = "GeoResolver.ResolveText"
	SpanResolveDevice = "GeoResolver.ResolveDevice"
	SpanNewsLatest    = "NewsService.Latest"
)
