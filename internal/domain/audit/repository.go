package audit

import "context"

// Repository is the write-only audit sink.
type Repository interface {
	Create(ctx context.Context, event Event) error
}
