package serverutils

type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, kind, message string) Response[*ErrorPayload] {
	return Response[*ErrorPayload]{
		Success: false,
		Code:    code,
		Message: message,
		Data: &ErrorPayload{
			Kind:    kind,
			Message: message,
		},
	}
}
