package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cordoba/internal/domain"
	"cordoba/internal/importer"
	"cordoba/internal/port"
)

// CreateContractInput is the DTO for registering a contract by hand.
type CreateContractInput struct {
	DebtorID       uuid.UUID        `json:"cliente_id" binding:"required"`
	ContractNumber *string          `json:"numero_contrato"`
	OriginalAmount decimal.Decimal  `json:"valor_original"`
	UpdatedAmount  *decimal.Decimal `json:"valor_atualizado"`
	ContractDate   *string          `json:"data_contrato"`
	DueDate        string           `json:"data_vencimento" binding:"required"`
	Status         string           `json:"status"`
}

// UpdateContractStatusInput is the DTO for a status transition.
type UpdateContractStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// ContractPage is one page of contracts.
type ContractPage struct {
	Contracts []domain.Contract `json:"contratos"`
	Total     int               `json:"total"`
	Page      int               `json:"pagina"`
	PerPage   int               `json:"por_pagina"`
}

// ContractService defines the contract management contract.
type ContractService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateContractInput) (*domain.Contract, error)
	GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Contract, error)
	List(ctx context.Context, scope domain.TenantScope, status string, page, perPage int) (*ContractPage, error)
	UpdateStatus(ctx context.Context, scope domain.TenantScope, id uuid.UUID, status string) (*domain.Contract, error)
}

type contractService struct {
	contracts port.ContractRepository
	debtors   port.DebtorRepository
}

// NewContractService creates a new ContractService implementation.
func NewContractService(contracts port.ContractRepository, debtors port.DebtorRepository) ContractService {
	return &contractService{contracts: contracts, debtors: debtors}
}

func (s *contractService) Create(ctx context.Context, tenantID uuid.UUID, input CreateContractInput) (*domain.Contract, error) {
	if !input.OriginalAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	due, ok := importer.ParseDate(input.DueDate, domain.SourceCSV)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDate, input.DueDate)
	}
	contractDate, err := parseOptionalDate(input.ContractDate)
	if err != nil {
		return nil, err
	}
	status := domain.ContractActive
	if strings.TrimSpace(input.Status) != "" {
		if status, ok = domain.LookupContractStatus(input.Status); !ok {
			return nil, domain.ErrInvalidStatus
		}
	}

	if _, err := s.debtors.GetByID(ctx, domain.SingleTenant(tenantID), input.DebtorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrDebtorNotFound
		}
		return nil, err
	}

	contract := &domain.Contract{
		TenantID:       tenantID,
		DebtorID:       input.DebtorID,
		OriginalAmount: input.OriginalAmount,
		UpdatedAmount:  input.UpdatedAmount,
		PaidAmount:     decimal.Zero,
		ContractDate:   contractDate,
		DueDate:        due,
		Status:         status,
	}
	if input.ContractNumber != nil {
		if number := importer.NormalizeText(*input.ContractNumber); number != "" {
			contract.ContractNumber = &number
		}
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *contractService) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, scope, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrContractNotFound
		}
		return nil, err
	}
	return contract, nil
}

func (s *contractService) List(ctx context.Context, scope domain.TenantScope, status string, page, perPage int) (*ContractPage, error) {
	var filter *domain.ContractStatus
	if strings.TrimSpace(status) != "" {
		st, ok := domain.LookupContractStatus(status)
		if !ok {
			return nil, domain.ErrInvalidStatus
		}
		filter = &st
	}

	page, perPage = normalizePage(page, perPage)
	contracts, total, err := s.contracts.List(ctx, scope, filter, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	return &ContractPage{Contracts: contracts, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *contractService) UpdateStatus(ctx context.Context, scope domain.TenantScope, id uuid.UUID, status string) (*domain.Contract, error) {
	st, ok := domain.LookupContractStatus(status)
	if !ok {
		return nil, domain.ErrInvalidStatus
	}
	if err := s.contracts.UpdateStatus(ctx, scope, id, st); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrContractNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, scope, id)
}
