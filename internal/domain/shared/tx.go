package shared

import "context"

// TxManager runs a function inside a single database transaction. The
// transaction handle travels in the context passed to fn, so every
// repository or gateway call made with that context joins the same
// transaction and commits or rolls back as one unit.
//
// Nested InTx calls join the enclosing transaction rather than opening a
// new one.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
