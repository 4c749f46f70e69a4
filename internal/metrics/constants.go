package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Draw metric names
const (
	MetricNameDrawsResolved     = "gacha_draws_resolved_total"
	MetricNamePityTriggers      = "gacha_pity_triggers_total"
	MetricNameAdmissionRejected = "gacha_admission_rejected_total"
	MetricNameCommitDuration    = "gacha_commit_duration_seconds"
	MetricNameCommitFailures    = "gacha_commit_failures_total"
	MetricNameGrantsCommitted   = "gacha_grants_committed_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Draw metric help text
const (
	HelpTextDrawsResolved     = "Total number of individual draws resolved"
	HelpTextPityTriggers      = "Total number of guaranteed-tier pity triggers"
	HelpTextAdmissionRejected = "Total number of reward batches rejected by the simulator"
	HelpTextCommitDuration    = "Reward batch commit latency in seconds"
	HelpTextCommitFailures    = "Total number of failed reward batch commits"
	HelpTextGrantsCommitted   = "Total number of atomic grants committed"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelPool   = "pool"
	LabelTier   = "tier"
	LabelReason = "reason"
	LabelKind   = "kind"
)

// Pity tier label values
const (
	PityTierNormal  = "normal"
	PityTierSpecial = "special"
)

// Rejection reason label values
const (
	RejectReasonCapacity = "capacity_exceeded"
	RejectReasonAdmit    = "reward_rejected"
)

// ============================================================================
// Buckets
// ============================================================================

// HTTPLatencyBuckets covers typical request latencies for the draw endpoint.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// CommitLatencyBuckets covers expected database commit times.
var CommitLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
