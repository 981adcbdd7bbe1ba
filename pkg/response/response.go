package response

// ErrorBody is the envelope returned by middleware and the HTTP error handler.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

func Error(code, message string, detail any) ErrorBody {
	return ErrorBody{
		Code:    code,
		Message: message,
		Detail:  detail,
	}
}
