package itxmanager

import "context"

// ITxManager runs a function inside a transaction boundary. The Postgres
// implementation opens a real transaction; the in-memory one takes the
// store's write lock for the duration of fn.
type ITxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
