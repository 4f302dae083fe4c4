package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "ollama", "openai")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "llama3.2", "gpt-4o-mini")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTemperature is the sampling temperature used
	AttrLLMTemperature = "llm.temperature"
)

// --- Token Usage Attributes ---

const (
	// AttrLLMTokensPrompt is the number of prompt tokens
	AttrLLMTokensPrompt = "llm.tokens.prompt" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensCompletion is the number of completion tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Resolution Attributes ---

const (
	// AttrResolveID uniquely identifies one resolution (all of its attempts)
	AttrResolveID = "resolve.id"

	// AttrResolveSchema is the name of the schema being resolved
	AttrResolveSchema = "resolve.schema"

	// AttrResolveAttempt is the 1-based attempt number
	AttrResolveAttempt = "resolve.attempt"

	// AttrResolveMaxAttempts is the attempt budget
	AttrResolveMaxAttempts = "resolve.max_attempts"

	// AttrResolveOutcome is the attempt outcome: "ok", "parse_error", "validation_error", "service_fault", "exhausted"
	AttrResolveOutcome = "resolve.outcome"

	// AttrResolveRepaired reports whether the payload needed local JSON repair
	AttrResolveRepaired = "resolve.repaired"

	// AttrResolvePromptLength is the length in bytes of the prompt sent
	AttrResolvePromptLength = "resolve.prompt.length"

	// AttrResolveResponseLength is the length in bytes of the raw response
	AttrResolveResponseLength = "resolve.response.length"

	// AttrResolveResponse is the raw response (truncated)
	AttrResolveResponse = "resolve.response"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrErrorType is the error type/class
	AttrErrorType = "error.type"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanResolve is the span name for one resolution
	SpanResolve = "resolve"

	// SpanLLMRequest is the span name for LLM API requests
	SpanLLMRequest = "llm.request"
)

// --- Event Names ---

const (
	// EventLLMRequestStart marks the start of an LLM request
	EventLLMRequestStart = "llm.request.start"

	// EventLLMRequestEnd marks the end of an LLM request
	EventLLMRequestEnd = "llm.request.end"

	// EventResolveAttempt marks the end of one attempt
	EventResolveAttempt = "resolve.attempt"
)

// --- Metric Names ---

const (
	// MetricResolveAttempts counts completion attempts made by resolutions
	MetricResolveAttempts = "structguard.resolve.attempts"

	// MetricResolveFailures counts resolutions that ended in a terminal failure
	MetricResolveFailures = "structguard.resolve.failures"

	// MetricResolveDuration is the histogram for resolution duration in milliseconds
	MetricResolveDuration = "structguard.resolve.duration"

	// MetricClientRequestCount is the counter for completion requests
	MetricClientRequestCount = "structguard.client.request.count"

	// MetricClientRequestDuration is the histogram for completion latency in seconds
	MetricClientRequestDuration = "structguard.client.request.duration"

	// MetricClientTokensTotal is the counter for total tokens
	MetricClientTokensTotal = "structguard.client.tokens.total" // #nosec G101 -- Not a credential
)
