package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	id "conforma/pkg/domain"
	dErrors "conforma/pkg/domain-errors"
	"conforma/pkg/platform/tx"
)

// StoreTx is the atomic boundary for the save path: the previous-evaluation
// read, the evaluation write, and the changelog inserts all run inside one
// RunInTx call and commit or fail together.
type StoreTx interface {
	RunInTx(ctx context.Context, projectID id.ProjectID, fn func(ctx context.Context) error) error
}

// SQLTx runs fn inside a database transaction carried on the context, so
// stores resolve the same *sql.Tx for every statement of the save.
type SQLTx struct {
	db *sql.DB
}

func NewSQLTx(db *sql.DB) *SQLTx {
	return &SQLTx{db: db}
}

func (t *SQLTx) RunInTx(ctx context.Context, _ id.ProjectID, fn func(ctx context.Context) error) error {
	dbTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx.WithTx(ctx, dbTx)); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// MemoryTx serializes saves per project with sharded mutexes. Operations are
// distributed across N shards by a hash of the project id, so concurrent
// saves on different projects rarely contend.
const numMemoryTxShards = 128

// defaultMemoryTxTimeout bounds how long one save may hold its shard.
const defaultMemoryTxTimeout = 5 * time.Second

type MemoryTx struct {
	shards  [numMemoryTxShards]sync.Mutex
	timeout time.Duration
}

func NewMemoryTx() *MemoryTx {
	return &MemoryTx{timeout: defaultMemoryTxTimeout}
}

func (t *MemoryTx) RunInTx(ctx context.Context, projectID id.ProjectID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	shard := hashProjectID(projectID) % numMemoryTxShards
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	// Check again after acquiring the lock.
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}

// hashProjectID uses FNV-1a for even shard distribution.
func hashProjectID(projectID id.ProjectID) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	s := projectID.String()
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
