package entities

// Response is the envelope used by the catalog, profile and preference routes
type Response struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	// RemainingTime is set on a resend throttle, in seconds
	RemainingTime int `json:"remainingTime,omitempty"`
	// RemainingAttempts is set on a code mismatch
	RemainingAttempts *int `json:"remainingAttempts,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
	Mode   string `json:"mode,omitempty"`
}
