package importer_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cordoba/internal/domain"
	"cordoba/internal/port"
)

// memStore is an in-memory stand-in for the PostgreSQL transaction layer.
// Transactions and savepoints are emulated with snapshots.
type memStore struct {
	debtors   map[uuid.UUID]domain.Debtor
	contracts map[uuid.UUID]domain.Contract
	runs      map[uuid.UUID]domain.ImportRun

	// failContract makes Contracts().Create fail for matching contracts.
	failContract func(c *domain.Contract) error
	// failFinish makes the in-transaction Finish fail.
	failFinish error
}

type memState struct {
	debtors   map[uuid.UUID]domain.Debtor
	contracts map[uuid.UUID]domain.Contract
	runs      map[uuid.UUID]domain.ImportRun
}

func newMemStore() *memStore {
	return &memStore{
		debtors:   map[uuid.UUID]domain.Debtor{},
		contracts: map[uuid.UUID]domain.Contract{},
		runs:      map[uuid.UUID]domain.ImportRun{},
	}
}

func (s *memStore) snapshot() memState {
	st := memState{
		debtors:   make(map[uuid.UUID]domain.Debtor, len(s.debtors)),
		contracts: make(map[uuid.UUID]domain.Contract, len(s.contracts)),
		runs:      make(map[uuid.UUID]domain.ImportRun, len(s.runs)),
	}
	for k, v := range s.debtors {
		st.debtors[k] = v
	}
	for k, v := range s.contracts {
		st.contracts[k] = v
	}
	for k, v := range s.runs {
		st.runs[k] = v
	}
	return st
}

func (s *memStore) restore(st memState) {
	s.debtors, s.contracts, s.runs = st.debtors, st.contracts, st.runs
}

func (s *memStore) RunInTx(_ context.Context, fn func(tx port.ImportTx) error) error {
	snap := s.snapshot()
	if err := fn(memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) debtorByID(tenantID uuid.UUID, nationalID string) (domain.Debtor, bool) {
	for _, d := range s.debtors {
		if d.TenantID == tenantID && d.NationalID == nationalID {
			return d, true
		}
	}
	return domain.Debtor{}, false
}

func (s *memStore) contractCount(tenantID uuid.UUID) int {
	n := 0
	for _, c := range s.contracts {
		if c.TenantID == tenantID {
			n++
		}
	}
	return n
}

type memTx struct{ s *memStore }

func (t memTx) Debtors() port.DebtorRepository      { return memDebtors{s: t.s} }
func (t memTx) Contracts() port.ContractRepository  { return memContracts{s: t.s} }
func (t memTx) ImportRuns() port.ImportRunRepository { return memRuns{s: t.s, inTx: true} }

func (t memTx) Savepoint(_ context.Context, fn func() error) error {
	snap := t.s.snapshot()
	if err := fn(); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type memDebtors struct{ s *memStore }

func (r memDebtors) Create(_ context.Context, d *domain.Debtor) error {
	if _, ok := r.s.debtorByID(d.TenantID, d.NationalID); ok {
		return domain.ErrDuplicateNationalID
	}
	d.ID = uuid.New()
	r.s.debtors[d.ID] = *d
	return nil
}

func (r memDebtors) Update(_ context.Context, d *domain.Debtor) error {
	if _, ok := r.s.debtors[d.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.debtors[d.ID] = *d
	return nil
}

func (r memDebtors) GetByID(_ context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Debtor, error) {
	d, ok := r.s.debtors[id]
	if !ok || (!scope.All && d.TenantID != scope.TenantID) {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r memDebtors) GetByNationalID(_ context.Context, tenantID uuid.UUID, nationalID string) (*domain.Debtor, error) {
	d, ok := r.s.debtorByID(tenantID, nationalID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r memDebtors) FindByNationalIDs(_ context.Context, tenantID uuid.UUID, ids []string) (map[string]domain.Debtor, error) {
	out := map[string]domain.Debtor{}
	for _, id := range ids {
		if d, ok := r.s.debtorByID(tenantID, id); ok {
			out[id] = d
		}
	}
	return out, nil
}

func (r memDebtors) List(context.Context, domain.TenantScope, string, int, int) ([]domain.Debtor, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (r memDebtors) ListSummaries(context.Context, domain.TenantScope, string, int, int) ([]domain.DebtorSummary, int, error) {
	return nil, 0, errors.New("not implemented")
}

type memContracts struct{ s *memStore }

func (r memContracts) Create(_ context.Context, c *domain.Contract) error {
	if r.s.failContract != nil {
		if err := r.s.failContract(c); err != nil {
			return err
		}
	}
	if c.ContractNumber != nil {
		if _, err := r.GetByNumber(context.Background(), c.TenantID, *c.ContractNumber); err == nil {
			return domain.ErrDuplicateContractNum
		}
	}
	c.ID = uuid.New()
	r.s.contracts[c.ID] = *c
	return nil
}

func (r memContracts) Update(_ context.Context, c *domain.Contract) error {
	if _, ok := r.s.contracts[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.contracts[c.ID] = *c
	return nil
}

func (r memContracts) GetByID(_ context.Context, _ domain.TenantScope, id uuid.UUID) (*domain.Contract, error) {
	c, ok := r.s.contracts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r memContracts) GetByNumber(_ context.Context, tenantID uuid.UUID, number string) (*domain.Contract, error) {
	for _, c := range r.s.contracts {
		if c.TenantID == tenantID && c.ContractNumber != nil && *c.ContractNumber == number {
			found := c
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memContracts) ListByDebtor(context.Context, domain.TenantScope, uuid.UUID) ([]domain.Contract, error) {
	return nil, errors.New("not implemented")
}

func (r memContracts) List(context.Context, domain.TenantScope, *domain.ContractStatus, int, int) ([]domain.Contract, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (r memContracts) UpdateStatus(context.Context, domain.TenantScope, uuid.UUID, domain.ContractStatus) error {
	return errors.New("not implemented")
}

type memRuns struct {
	s    *memStore
	inTx bool
}

func (r memRuns) Create(_ context.Context, run *domain.ImportRun) error {
	r.s.runs[run.ID] = *run
	return nil
}

func (r memRuns) Finish(_ context.Context, run *domain.ImportRun) error {
	if r.inTx && r.s.failFinish != nil {
		return r.s.failFinish
	}
	if _, ok := r.s.runs[run.ID]; !ok {
		return fmt.Errorf("run %s: %w", run.ID, domain.ErrNotFound)
	}
	r.s.runs[run.ID] = *run
	return nil
}

func (r memRuns) List(context.Context, domain.TenantScope, int, int) ([]domain.ImportRunListItem, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (r memRuns) GetByID(_ context.Context, _ domain.TenantScope, id uuid.UUID) (*domain.ImportRun, error) {
	run, ok := r.s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

func (r memRuns) ReferencedFilePaths(context.Context, []string) (map[string]struct{}, error) {
	return nil, errors.New("not implemented")
}
