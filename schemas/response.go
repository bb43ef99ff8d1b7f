package schemas

// Status is the envelope status enum
type Status string

// Envelope statuses
const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Response is the uniform envelope wrapping every JSON API response.
// Message is a string for plain errors or a []FieldError for validation
// failures; it is omitted on success.
type Response struct {
	Status  Status `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message any    `json:"message,omitempty"`
}

// FieldError is one entry of a structured validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Page wraps a paginated list result
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewPage builds a page envelope from a repository List/Count pair
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: page, Limit: limit}
}
