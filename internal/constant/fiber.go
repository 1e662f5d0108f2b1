package constant

const (
	ContextKeyRequestID = "requestid"

	RequestIDHeader = "X-Portal-Request-ID"
)
