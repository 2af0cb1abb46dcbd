package observability

const (
	MUsecaseRequests MetricKey = "usecase_requests_total"
	MUsecaseDuration MetricKey = "usecase_duration_seconds"
	MCheckoutEvents  MetricKey = "checkout_events_total"
)
