package dto

// ErrorResponse is the body returned on any non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}
