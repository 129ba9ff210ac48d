package server

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}

// ErrorResponse is a uniform error payload returned for malformed requests.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid JSON"`
}
