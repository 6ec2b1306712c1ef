package sandbox

import "net/http"

// requestError renders as the {"error": "..."} body the production
// backend emits, with the HTTP status carried out of band so huma can
// set it on the response.
type requestError struct {
	status  int
	Message string `json:"error"`
}

func (e *requestError) Error() string {
	return e.Message
}

func (e *requestError) GetStatus() int {
	return e.status
}

func errBadRequest(msg string) error {
	return &requestError{status: http.StatusBadRequest, Message: msg}
}

func errNotFound(msg string) error {
	return &requestError{status: http.StatusNotFound, Message: msg}
}

func errConflict(msg string) error {
	return &requestError{status: http.StatusConflict, Message: msg}
}

func errUnauthorized(msg string) error {
	return &requestError{status: http.StatusUnauthorized, Message: msg}
}

func errForbidden() error {
	return &requestError{status: http.StatusForbidden, Message: "Forbidden"}
}

func errUnavailable(msg string) error {
	return &requestError{status: http.StatusServiceUnavailable, Message: msg}
}

func errValidation() error {
	return errBadRequest("Validation failed")
}

// messageOutput is the {"message": "..."} acknowledgement most delete
// endpoints return.
type messageOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

func messageResponse(msg string) *messageOutput {
	out := &messageOutput{}
	out.Body.Message = msg
	return out
}
