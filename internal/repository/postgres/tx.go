package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cordoba/internal/port"
)

type transactor struct {
	db *sqlx.DB
}

// NewTransactor creates a port.Transactor over db.
func NewTransactor(db *sqlx.DB) port.Transactor {
	return &transactor{db: db}
}

func (t *transactor) RunInTx(ctx context.Context, fn func(tx port.ImportTx) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transactor.RunInTx begin: %w", err)
	}
	if err := fn(&importTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transactor.RunInTx commit: %w", err)
	}
	return nil
}

type importTx struct {
	tx  *sqlx.Tx
	seq int
}

func (t *importTx) Debtors() port.DebtorRepository      { return &debtorRepo{db: t.tx} }
func (t *importTx) Contracts() port.ContractRepository  { return &contractRepo{db: t.tx} }
func (t *importTx) ImportRuns() port.ImportRunRepository { return &importRunRepo{db: t.tx} }

func (t *importTx) Savepoint(ctx context.Context, fn func() error) error {
	t.seq++
	name := fmt.Sprintf("import_row_%d", t.seq)

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("%w: %w", port.ErrSavepoint, err)
	}
	if err := fn(); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("%w: %w", port.ErrSavepoint, rbErr)
		}
		return err
	}
	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("%w: %w", port.ErrSavepoint, err)
	}
	return nil
}
