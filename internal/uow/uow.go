package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgresrepo "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/postgres"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// TxRunner opens a transaction and hands fn a context carrying it.
type TxRunner interface {
	RunTx(ctx context.Context, opts *pgx.TxOptions, fn func(ctx context.Context) error) error
}

const defaultAttempts = 3

// UoW represents a unit of work.
type UoW struct {
	runner   TxRunner
	attempts int
}

func NewUoW(runner TxRunner) *UoW {
	return &UoW{runner: runner, attempts: defaultAttempts}
}

type hooksKey struct{}

// Do runs fn inside the transaction. After a successful commit,
// it executes all after-commit hooks.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts runs fn inside the transaction with the given options. After a successful commit,
// it executes all after-commit hooks. Serialization failures are retried with a fresh
// transaction. A call made inside another unit of work joins it and defers its hooks
// to the outer commit.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, after func(AfterCommit)) error,
) error {
	if outer, ok := ctx.Value(hooksKey{}).(*[]AfterCommit); ok {
		return u.runner.RunTx(ctx, opts, func(ctx context.Context) error {
			return fn(ctx, func(h AfterCommit) {
				*outer = append(*outer, h)
			})
		})
	}

	var hooks []AfterCommit
	var err error

	for attempt := 1; attempt <= u.attempts; attempt++ {
		hooks = hooks[:0]

		err = u.runner.RunTx(ctx, opts, func(ctx context.Context) error {
			ctx = context.WithValue(ctx, hooksKey{}, &hooks)
			return fn(ctx, func(h AfterCommit) {
				hooks = append(hooks, h)
			})
		})
		if err == nil || !postgresrepo.IsRetryable(err) {
			break
		}
	}
	if err != nil {
		return err
	}

	hookCtx := context.WithoutCancel(ctx)
	for _, h := range hooks {
		h(hookCtx)
	}

	return nil
}
