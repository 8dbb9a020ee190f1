package commons

// Response is the JSON envelope every API endpoint returns. Code carries the
// machine-readable error kind on failures.
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// CodedErrorResponse is an ErrorResponse tagged with an error kind.
func CodedErrorResponse[T any](code, message string, errors ...string) Response[T] {
	response := ErrorResponse[T](message, errors...)
	response.Code = code
	return response
}
