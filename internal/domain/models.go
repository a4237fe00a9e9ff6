package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant represents a collection agency client isolated from the others.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"nome"`
	CNPJ      string    `db:"cnpj" json:"cnpj"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"telefone"`
	IsActive  bool      `db:"is_active" json:"ativo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents a back-office operator. TenantID is nil only for
// users with global access.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TenantID     *uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"nome"`
	Role         UserRole   `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"ativo"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Debtor is a person owing money, unique per tenant by national id.
type Debtor struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	TenantID   uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Name       string     `db:"name" json:"nome"`
	NationalID string     `db:"national_id" json:"cpf"`
	BirthDate  *time.Time `db:"birth_date" json:"data_nascimento,omitempty"`
	Sex        *Sex       `db:"sex" json:"sexo,omitempty"`
	Phone      string     `db:"phone" json:"telefone"`
	Email      string     `db:"email" json:"email"`
	Address    string     `db:"address" json:"endereco"`
	City       string     `db:"city" json:"cidade"`
	State      string     `db:"state" json:"estado"`
	ZipCode    string     `db:"zip_code" json:"cep"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Contract is a single debt instrument owned by a debtor.
type Contract struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	TenantID       uuid.UUID        `db:"tenant_id" json:"tenant_id"`
	DebtorID       uuid.UUID        `db:"debtor_id" json:"cliente_id"`
	ContractNumber *string          `db:"contract_number" json:"numero_contrato,omitempty"`
	OriginalAmount decimal.Decimal  `db:"original_amount" json:"valor_original"`
	UpdatedAmount  *decimal.Decimal `db:"updated_amount" json:"valor_atualizado,omitempty"`
	PaidAmount     decimal.Decimal  `db:"paid_amount" json:"valor_pago"`
	ContractDate   *time.Time       `db:"contract_date" json:"data_contrato,omitempty"`
	DueDate        time.Time        `db:"due_date" json:"data_vencimento"`
	PaymentDate    *time.Time       `db:"payment_date" json:"data_pagamento,omitempty"`
	Status         ContractStatus   `db:"status" json:"status"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// ImportRun is the audit record of one committed import.
type ImportRun struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	TenantID         uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	UserID           *uuid.UUID      `db:"user_id" json:"usuario_id,omitempty"`
	FileName         string          `db:"file_name" json:"arquivo"`
	FileSize         int64           `db:"file_size" json:"tamanho_bytes"`
	FilePath         string          `db:"file_path" json:"caminho_arquivo,omitempty"`
	Type             ImportType      `db:"import_type" json:"tipo"`
	Status           ImportStatus    `db:"status" json:"status"`
	TotalRows        int             `db:"total_rows" json:"total_linhas"`
	ProcessedRows    int             `db:"processed_rows" json:"linhas_processadas"`
	DebtorsCreated   int             `db:"debtors_created" json:"clientes_criados"`
	DebtorsUpdated   int             `db:"debtors_updated" json:"clientes_atualizados"`
	ContractsCreated int             `db:"contracts_created" json:"contratos_criados"`
	ContractsUpdated int             `db:"contracts_updated" json:"contratos_atualizados"`
	TotalErrors      int             `db:"total_errors" json:"total_erros"`
	ErrorDetails     json.RawMessage `db:"error_details" json:"erros_detalhes,omitempty"`
	ColumnMapping    json.RawMessage `db:"column_mapping" json:"colunas_mapeadas,omitempty"`
	StartedAt        time.Time       `db:"started_at" json:"data_inicio"`
	FinishedAt       *time.Time      `db:"finished_at" json:"data_fim,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// ImportRunListItem is an import run joined with its user and tenant names.
type ImportRunListItem struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	FileName      string       `db:"file_name" json:"arquivo"`
	Type          ImportType   `db:"import_type" json:"tipo"`
	Status        ImportStatus `db:"status" json:"status"`
	TotalRows     int          `db:"total_rows" json:"total_linhas"`
	ProcessedRows int          `db:"processed_rows" json:"processados"`
	TotalErrors   int          `db:"total_errors" json:"erros"`
	StartedAt     time.Time    `db:"started_at" json:"data"`
	UserName      *string      `db:"user_name" json:"-"`
	TenantName    *string      `db:"tenant_name" json:"tenant_nome"`
	User          string       `db:"-" json:"usuario"`
}

// DebtorSummary is a debtor row of the base listing with contract aggregates.
type DebtorSummary struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Name           string          `db:"name" json:"nome"`
	NationalID     string          `db:"national_id" json:"-"`
	MaskedID       string          `db:"-" json:"cpf"`
	Phone          string          `db:"phone" json:"telefone"`
	Email          string          `db:"email" json:"email"`
	City           string          `db:"city" json:"cidade"`
	State          string          `db:"state" json:"estado"`
	TotalContracts int             `db:"total_contracts" json:"total_contratos"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"valor_total"`
	Status         ContractStatus  `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"data_cadastro"`
}

// BaseStats holds the headline numbers of a tenant's debtor base.
type BaseStats struct {
	TotalDebtors    int             `db:"total_debtors" json:"total_clientes"`
	TotalContracts  int             `db:"total_contracts" json:"total_contratos"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"valor_total"`
	OverdueDebtors  int             `db:"overdue_debtors" json:"clientes_com_atraso"`
	LastImportEnded *time.Time      `db:"last_import" json:"ultima_importacao"`
}
