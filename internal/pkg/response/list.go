package response

// ListResponse is the standard wrapper for list endpoints.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewListResponse wraps items for a list endpoint.
func NewListResponse[T any](items []T) ListResponse[T] {
	// Avoid JSON null for empty result sets
	if items == nil {
		items = make([]T, 0)
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}
