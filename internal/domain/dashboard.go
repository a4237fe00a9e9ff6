package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusSlice is one bar of the contract status distribution.
type StatusSlice struct {
	Status      ContractStatus  `db:"status" json:"status"`
	Count       int             `db:"quantity" json:"quantidade"`
	Percent     float64         `db:"-" json:"percentual"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"valor_total"`
}

// DelayBucket aggregates contracts by days past due.
type DelayBucket struct {
	Label       string          `db:"label" json:"faixa"`
	Count       int             `db:"quantity" json:"quantidade"`
	Percent     float64         `db:"-" json:"percentual"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"valor_total"`
}

// DelayBucketLabels lists the bucket labels in display order.
var DelayBucketLabels = []string{"Em dia", "D+1-30", "D+31-60", "D+61-90", "D+91-180", "D+180+"}

// TopDebtor is a debtor ranked by outstanding amount.
type TopDebtor struct {
	ID             uuid.UUID       `db:"id" json:"-"`
	Name           string          `db:"name" json:"nome"`
	NationalID     string          `db:"national_id" json:"-"`
	MaskedID       string          `db:"-" json:"cpf_mascarado"`
	TotalContracts int             `db:"total_contracts" json:"total_contratos"`
	Outstanding    decimal.Decimal `db:"outstanding" json:"valor_pendente"`
	MaxDelayDays   int             `db:"max_delay" json:"max_atraso"`
}

// Dashboard is the main portfolio dashboard for one tenant or for all.
type Dashboard struct {
	TotalContracts     int             `json:"total_contratos"`
	TotalDebtors       int             `json:"total_devedores"`
	ActiveContracts    int             `json:"contratos_ativos"`
	PaidContracts      int             `json:"contratos_pagos"`
	OverdueContracts   int             `json:"contratos_atrasados"`
	TotalAmount        decimal.Decimal `json:"valor_total"`
	AverageDelayDays   float64         `json:"media_atraso"`
	StatusDistribution []StatusSlice   `json:"distribuicao_status"`
	DelayBuckets       []DelayBucket   `json:"faixas_atraso"`
	TopDebtors         []TopDebtor     `json:"top_devedores"`
	TenantID           *uuid.UUID      `json:"tenant_id"`
	TenantName         *string         `json:"tenant_nome"`
}

// ConsolidatedDashboard is the global view plus one dashboard per active tenant.
type ConsolidatedDashboard struct {
	Total     Dashboard   `json:"total_geral"`
	PerTenant []Dashboard `json:"por_tenant"`
}
