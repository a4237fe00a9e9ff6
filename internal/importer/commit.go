package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cordoba/internal/domain"
	"cordoba/internal/port"
)

const (
	// MaxSurfacedErrors is how many row errors a commit result carries.
	MaxSurfacedErrors = 20
	// MaxPersistedErrors is how many row errors an import run stores.
	MaxPersistedErrors = 50
)

// CommitInput is everything needed to write one batch.
type CommitInput struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	FileName  string
	FileSize  int64
	FilePath  string
	Type      domain.ImportType
	Batch     *domain.Batch
	Mapping   domain.ColumnMapping
	Overwrite bool
}

// Result is the outcome of a committed import.
type Result struct {
	RunID            uuid.UUID           `json:"id_importacao"`
	FileName         string              `json:"arquivo"`
	Type             domain.ImportType   `json:"tipo_importacao"`
	Status           domain.ImportStatus `json:"status"`
	TotalRows        int                 `json:"total_linhas"`
	ProcessedRows    int                 `json:"linhas_processadas"`
	DebtorsCreated   int                 `json:"clientes_criados"`
	DebtorsUpdated   int                 `json:"clientes_atualizados"`
	ContractsCreated int                 `json:"contratos_criados"`
	ContractsUpdated int                 `json:"contratos_atualizados"`
	TotalErrors      int                 `json:"total_erros"`
	Errors           []string            `json:"erros"`
	StartedAt        time.Time           `json:"data_inicio"`
	FinishedAt       time.Time           `json:"data_fim"`
	TenantID         uuid.UUID           `json:"tenant_id"`
	UserID           uuid.UUID           `json:"usuario_id"`
}

type counters struct {
	processed        int
	debtorsCreated   int
	debtorsUpdated   int
	contractsCreated int
	contractsUpdated int
	errors           []string
}

type rowEffect struct {
	debtorCreated   bool
	debtorUpdated   bool
	contractCreated bool
	contractUpdated bool
}

func (c *counters) apply(e rowEffect) {
	c.processed++
	if e.debtorCreated {
		c.debtorsCreated++
	}
	if e.debtorUpdated {
		c.debtorsUpdated++
	}
	if e.contractCreated {
		c.contractsCreated++
	}
	if e.contractUpdated {
		c.contractsUpdated++
	}
}

// Executor writes batches to storage inside one transaction per run and
// keeps the import audit log.
type Executor struct {
	tx   port.Transactor
	runs port.ImportRunRepository
	log  logrus.FieldLogger
	now  func() time.Time
}

// NewExecutor creates an Executor. runs is used outside the data
// transaction to open and, on failure, close the audit record.
func NewExecutor(tx port.Transactor, runs port.ImportRunRepository, log logrus.FieldLogger) *Executor {
	return &Executor{
		tx:   tx,
		runs: runs,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Commit creates or updates debtors and contracts for every row of the batch.
// Row failures are recorded and skipped. Any other failure rolls the whole
// run back and returns an error wrapping domain.ErrImportFailed.
func (e *Executor) Commit(ctx context.Context, in CommitInput) (*Result, error) {
	mapping, _ := json.Marshal(in.Mapping)
	userID := in.UserID
	run := &domain.ImportRun{
		ID:            uuid.New(),
		TenantID:      in.TenantID,
		UserID:        &userID,
		FileName:      in.FileName,
		FileSize:      in.FileSize,
		FilePath:      in.FilePath,
		Type:          in.Type,
		Status:        domain.ImportProcessing,
		TotalRows:     len(in.Batch.Rows),
		ErrorDetails:  json.RawMessage("[]"),
		ColumnMapping: mapping,
		StartedAt:     e.now(),
	}
	if err := e.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("%w: opening import run: %w", domain.ErrImportFailed, err)
	}

	log := e.log.WithFields(logrus.Fields{
		"import_run": run.ID,
		"tenant_id":  in.TenantID,
		"file":       in.FileName,
		"rows":       run.TotalRows,
		"overwrite":  in.Overwrite,
	})
	log.Info("import started")

	var stats counters
	err := e.tx.RunInTx(ctx, func(tx port.ImportTx) error {
		stats = counters{}
		if err := e.writeRows(ctx, tx, in, &stats); err != nil {
			return err
		}
		finishRun(run, &stats, e.now())
		return tx.ImportRuns().Finish(ctx, run)
	})
	if err != nil {
		e.markFailed(ctx, run, err, log)
		return nil, fmt.Errorf("%w: %w", domain.ErrImportFailed, err)
	}

	log.WithFields(logrus.Fields{
		"processed":         stats.processed,
		"debtors_created":   stats.debtorsCreated,
		"debtors_updated":   stats.debtorsUpdated,
		"contracts_created": stats.contractsCreated,
		"contracts_updated": stats.contractsUpdated,
		"errors":            len(stats.errors),
	}).Info("import finished")

	return &Result{
		RunID:            run.ID,
		FileName:         run.FileName,
		Type:             run.Type,
		Status:           run.Status,
		TotalRows:        run.TotalRows,
		ProcessedRows:    stats.processed,
		DebtorsCreated:   stats.debtorsCreated,
		DebtorsUpdated:   stats.debtorsUpdated,
		ContractsCreated: stats.contractsCreated,
		ContractsUpdated: stats.contractsUpdated,
		TotalErrors:      len(stats.errors),
		Errors:           capList(stats.errors, MaxSurfacedErrors),
		StartedAt:        run.StartedAt,
		FinishedAt:       *run.FinishedAt,
		TenantID:         in.TenantID,
		UserID:           in.UserID,
	}, nil
}

func (e *Executor) writeRows(ctx context.Context, tx port.ImportTx, in CommitInput, stats *counters) error {
	reader := NewRowReader(in.Batch, in.Mapping)
	committed := make(map[string]struct{}, len(in.Batch.Rows))

	for _, row := range in.Batch.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := reader.Read(row)
		if _, dup := committed[rec.NationalID]; dup {
			continue
		}
		if errs := rec.Validate(); len(errs) > 0 {
			stats.errors = append(stats.errors, rowError(rec.Line, strings.Join(errs, "; ")))
			continue
		}

		var effect rowEffect
		err := tx.Savepoint(ctx, func() error {
			var rowErr error
			effect, rowErr = writeRecord(ctx, tx, in.TenantID, &rec, in.Overwrite)
			return rowErr
		})
		switch {
		case err == nil:
			stats.apply(effect)
			committed[rec.NationalID] = struct{}{}
		case errors.Is(err, port.ErrSavepoint) || ctx.Err() != nil:
			return err
		default:
			stats.errors = append(stats.errors, rowError(rec.Line, err.Error()))
		}
	}
	return nil
}

func writeRecord(ctx context.Context, tx port.ImportTx, tenantID uuid.UUID, rec *Record, overwrite bool) (rowEffect, error) {
	var effect rowEffect

	debtor, err := tx.Debtors().GetByNationalID(ctx, tenantID, rec.NationalID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		debtor = newDebtor(tenantID, rec)
		if err := tx.Debtors().Create(ctx, debtor); err != nil {
			return effect, err
		}
		effect.debtorCreated = true
	case err != nil:
		return effect, err
	case overwrite:
		mergeDebtor(debtor, rec)
		if err := tx.Debtors().Update(ctx, debtor); err != nil {
			return effect, err
		}
		effect.debtorUpdated = true
	}

	if rec.ContractNumber != "" {
		existing, err := tx.Contracts().GetByNumber(ctx, tenantID, rec.ContractNumber)
		switch {
		case err == nil:
			if overwrite {
				existing.OriginalAmount = rec.Amount
				existing.DueDate = *rec.DueDate
				existing.Status = rec.Status
				if err := tx.Contracts().Update(ctx, existing); err != nil {
					return effect, err
				}
				effect.contractUpdated = true
			}
			return effect, nil
		case !errors.Is(err, domain.ErrNotFound):
			return effect, err
		}
	}

	if err := tx.Contracts().Create(ctx, newContract(tenantID, debtor.ID, rec)); err != nil {
		return effect, err
	}
	effect.contractCreated = true
	return effect, nil
}

func newDebtor(tenantID uuid.UUID, rec *Record) *domain.Debtor {
	return &domain.Debtor{
		TenantID:   tenantID,
		Name:       rec.Name,
		NationalID: rec.NationalID,
		BirthDate:  rec.BirthDate,
		Sex:        rec.Sex,
		Phone:      rec.Phone,
		Email:      rec.Email,
		Address:    rec.Address,
		City:       rec.City,
		State:      rec.State,
		ZipCode:    rec.ZipCode,
	}
}

// mergeDebtor copies the non-empty incoming values onto d.
func mergeDebtor(d *domain.Debtor, rec *Record) {
	if rec.Name != "" {
		d.Name = rec.Name
	}
	if rec.Phone != "" {
		d.Phone = rec.Phone
	}
	if rec.Email != "" {
		d.Email = rec.Email
	}
	if rec.BirthDate != nil {
		d.BirthDate = rec.BirthDate
	}
	if rec.Sex != nil {
		d.Sex = rec.Sex
	}
	if rec.Address != "" {
		d.Address = rec.Address
	}
	if rec.City != "" {
		d.City = rec.City
	}
	if rec.State != "" {
		d.State = rec.State
	}
	if rec.ZipCode != "" {
		d.ZipCode = rec.ZipCode
	}
}

func newContract(tenantID, debtorID uuid.UUID, rec *Record) *domain.Contract {
	c := &domain.Contract{
		TenantID:       tenantID,
		DebtorID:       debtorID,
		OriginalAmount: rec.Amount,
		PaidAmount:     decimal.Zero,
		ContractDate:   rec.ContractDate,
		DueDate:        *rec.DueDate,
		Status:         rec.Status,
	}
	if rec.ContractNumber != "" {
		number := rec.ContractNumber
		c.ContractNumber = &number
	}
	return c
}

func finishRun(run *domain.ImportRun, stats *counters, now time.Time) {
	details, _ := json.Marshal(capList(stats.errors, MaxPersistedErrors))
	run.Status = domain.ImportDone
	run.ProcessedRows = stats.processed
	run.DebtorsCreated = stats.debtorsCreated
	run.DebtorsUpdated = stats.debtorsUpdated
	run.ContractsCreated = stats.contractsCreated
	run.ContractsUpdated = stats.contractsUpdated
	run.TotalErrors = len(stats.errors)
	run.ErrorDetails = details
	run.FinishedAt = &now
}

func (e *Executor) markFailed(ctx context.Context, run *domain.ImportRun, cause error, log logrus.FieldLogger) {
	now := e.now()
	details, _ := json.Marshal([]string{cause.Error()})
	run.Status = domain.ImportError
	run.ProcessedRows = 0
	run.DebtorsCreated = 0
	run.DebtorsUpdated = 0
	run.ContractsCreated = 0
	run.ContractsUpdated = 0
	run.TotalErrors = 0
	run.ErrorDetails = details
	run.FinishedAt = &now

	log.WithError(cause).Error("import rolled back")
	if err := e.runs.Finish(context.WithoutCancel(ctx), run); err != nil {
		log.WithError(err).Error("marking import run as failed")
	}
}

func rowError(line int, msg string) string {
	return fmt.Sprintf("Linha %d: %s", line, msg)
}

func capList(items []string, n int) []string {
	if len(items) <= n {
		out := make([]string, len(items))
		copy(out, items)
		return out
	}
	out := make([]string, n)
	copy(out, items[:n])
	return out
}
