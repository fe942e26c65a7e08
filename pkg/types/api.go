package types

// ModelsResponse wraps the list of bundles returned by GET /models.
type ModelsResponse struct {
	// List of available model bundles.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not found: cartoon-256
	Error string `json:"error" example:"model not found: cartoon-256"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// InstanceStatus summarizes one loaded stylizer instance for /status.
type InstanceStatus struct {
	// ID of the model bundle this instance serves.
	// example: cartoon-256
	ModelID string `json:"model_id" example:"cartoon-256"`
	// Current lifecycle state of the instance (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Last time this instance served a request (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
	// Requests served by this instance since load.
	// example: 42
	Requests uint64 `json:"requests" example:"42"`
	// Requests that found and stylized a face.
	// example: 37
	Stylized uint64 `json:"stylized" example:"37"`
	// Fixed output edge length in pixels.
	// example: 256
	OutputSize int `json:"output_size" example:"256"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Loaded stylizer instances.
	Instances []InstanceStatus `json:"instances"`
	// Default model id used when a request omits ?model.
	// example: cartoon-256
	DefaultModel string `json:"default_model,omitempty" example:"cartoon-256"`
	// Number of bundles known to the registry.
	// example: 3
	RegistrySize int `json:"registry_size" example:"3"`
	// Total stylize calls across all instances.
	// example: 120
	RequestsTotal uint64 `json:"requests_total" example:"120"`
	// Total instance loads since startup.
	// example: 2
	LoadsTotal uint64 `json:"loads_total" example:"2"`
	// Last error observed by the manager (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
