package dto

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	ServiceConfigured  = "configured"
	ServiceMissing     = "missing"
	ServiceConnected   = "connected"
	ServiceUnreachable = "unreachable"
	ServiceDisabled    = "disabled"
)

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp string            `json:"timestamp"`
}
