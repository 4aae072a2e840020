package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	Requested string            `json:"requested,omitempty"`
	Available string            `json:"available,omitempty"`
}
