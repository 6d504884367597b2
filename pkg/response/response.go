package response

// ListResponse is the envelope for read endpoints. Options carries every
// dictionary row so historic references to deactivated entries still render;
// ActiveOptions carries only is_active rows for editable dropdowns.
type ListResponse struct {
	Success       bool        `json:"success"`
	Data          interface{} `json:"data"`
	Options       interface{} `json:"options,omitempty"`
	ActiveOptions interface{} `json:"activeOptions,omitempty"`
}

// MutationResponse is the envelope for create/update/delete endpoints.
type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

// ErrorResponse is returned with a 4xx/5xx status on any failure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func List(data interface{}) ListResponse {
	return ListResponse{Success: true, Data: data}
}

func ListWithOptions(data, options, activeOptions interface{}) ListResponse {
	return ListResponse{Success: true, Data: data, Options: options, ActiveOptions: activeOptions}
}

func OK(message string) MutationResponse {
	return MutationResponse{Success: true, Message: message}
}

// Created reports a successful insert together with the new row id.
func Created(message string, id int64) MutationResponse {
	return MutationResponse{Success: true, Message: message, ID: id}
}

func Error(err string) ErrorResponse {
	return ErrorResponse{Success: false, Error: err}
}
