package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cordoba/internal/domain"
	"cordoba/internal/importer"
	"cordoba/internal/port"
)

// CreateDebtorInput is the DTO for registering a debtor by hand.
type CreateDebtorInput struct {
	Name       string  `json:"nome" binding:"required"`
	NationalID string  `json:"cpf" binding:"required"`
	BirthDate  *string `json:"data_nascimento"`
	Sex        *string `json:"sexo"`
	Phone      string  `json:"telefone"`
	Email      string  `json:"email"`
	Address    string  `json:"endereco"`
	City       string  `json:"cidade"`
	State      string  `json:"estado"`
	ZipCode    string  `json:"cep"`
}

// UpdateDebtorInput is the DTO for updating a debtor. Nil fields are kept.
// The national id cannot change.
type UpdateDebtorInput struct {
	Name      *string `json:"nome"`
	BirthDate *string `json:"data_nascimento"`
	Sex       *string `json:"sexo"`
	Phone     *string `json:"telefone"`
	Email     *string `json:"email"`
	Address   *string `json:"endereco"`
	City      *string `json:"cidade"`
	State     *string `json:"estado"`
	ZipCode   *string `json:"cep"`
}

// DebtorPage is one page of debtors.
type DebtorPage struct {
	Debtors []domain.Debtor `json:"devedores"`
	Total   int             `json:"total"`
	Page    int             `json:"pagina"`
	PerPage int             `json:"por_pagina"`
}

// DebtorService defines the debtor management contract.
type DebtorService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateDebtorInput) (*domain.Debtor, error)
	GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Debtor, error)
	List(ctx context.Context, scope domain.TenantScope, search string, page, perPage int) (*DebtorPage, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateDebtorInput) (*domain.Debtor, error)
	Contracts(ctx context.Context, scope domain.TenantScope, id uuid.UUID) ([]domain.Contract, error)
}

type debtorService struct {
	debtors   port.DebtorRepository
	contracts port.ContractRepository
}

// NewDebtorService creates a new DebtorService implementation.
func NewDebtorService(debtors port.DebtorRepository, contracts port.ContractRepository) DebtorService {
	return &debtorService{debtors: debtors, contracts: contracts}
}

func (s *debtorService) Create(ctx context.Context, tenantID uuid.UUID, input CreateDebtorInput) (*domain.Debtor, error) {
	nationalID := importer.NormalizeNationalID(input.NationalID)
	if !importer.IsValidNationalID(nationalID) {
		return nil, domain.ErrInvalidNationalID
	}
	birthDate, err := parseOptionalDate(input.BirthDate)
	if err != nil {
		return nil, err
	}

	debtor := &domain.Debtor{
		TenantID:   tenantID,
		Name:       importer.NormalizeText(input.Name),
		NationalID: nationalID,
		BirthDate:  birthDate,
		Sex:        parseOptionalSex(input.Sex),
		Phone:      importer.NormalizePhone(input.Phone),
		Email:      importer.NormalizeEmail(input.Email),
		Address:    importer.NormalizeText(input.Address),
		City:       importer.NormalizeText(input.City),
		State:      importer.NormalizeState(input.State),
		ZipCode:    importer.NormalizeText(input.ZipCode),
	}
	if debtor.Name == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, importer.MsgNameRequired)
	}
	if err := s.debtors.Create(ctx, debtor); err != nil {
		return nil, err
	}
	return debtor, nil
}

func (s *debtorService) GetByID(ctx context.Context, scope domain.TenantScope, id uuid.UUID) (*domain.Debtor, error) {
	debtor, err := s.debtors.GetByID(ctx, scope, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrDebtorNotFound
		}
		return nil, err
	}
	return debtor, nil
}

func (s *debtorService) List(ctx context.Context, scope domain.TenantScope, search string, page, perPage int) (*DebtorPage, error) {
	page, perPage = normalizePage(page, perPage)
	debtors, total, err := s.debtors.List(ctx, scope, strings.TrimSpace(search), (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	if debtors == nil {
		debtors = []domain.Debtor{}
	}
	return &DebtorPage{Debtors: debtors, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *debtorService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateDebtorInput) (*domain.Debtor, error) {
	debtor, err := s.GetByID(ctx, domain.SingleTenant(tenantID), id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := importer.NormalizeText(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, importer.MsgNameRequired)
		}
		debtor.Name = name
	}
	if input.BirthDate != nil {
		birthDate, err := parseOptionalDate(input.BirthDate)
		if err != nil {
			return nil, err
		}
		debtor.BirthDate = birthDate
	}
	if input.Sex != nil {
		debtor.Sex = parseOptionalSex(input.Sex)
	}
	if input.Phone != nil {
		debtor.Phone = importer.NormalizePhone(*input.Phone)
	}
	if input.Email != nil {
		debtor.Email = importer.NormalizeEmail(*input.Email)
	}
	if input.Address != nil {
		debtor.Address = importer.NormalizeText(*input.Address)
	}
	if input.City != nil {
		debtor.City = importer.NormalizeText(*input.City)
	}
	if input.State != nil {
		debtor.State = importer.NormalizeState(*input.State)
	}
	if input.ZipCode != nil {
		debtor.ZipCode = importer.NormalizeText(*input.ZipCode)
	}

	if err := s.debtors.Update(ctx, debtor); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrDebtorNotFound
		}
		return nil, err
	}
	return debtor, nil
}

func (s *debtorService) Contracts(ctx context.Context, scope domain.TenantScope, id uuid.UUID) ([]domain.Contract, error) {
	if _, err := s.GetByID(ctx, scope, id); err != nil {
		return nil, err
	}
	contracts, err := s.contracts.ListByDebtor(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	return contracts, nil
}

// parseOptionalDate accepts the same date formats as the spreadsheet importer.
// Nil or blank input clears the date.
func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, ok := importer.ParseDate(*raw, domain.SourceCSV)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDate, *raw)
	}
	return &t, nil
}

func parseOptionalSex(raw *string) *domain.Sex {
	if raw == nil {
		return nil
	}
	if sex, ok := domain.ParseSex(*raw); ok {
		return &sex
	}
	return nil
}
