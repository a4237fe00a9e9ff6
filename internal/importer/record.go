package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cordoba/internal/domain"
)

// Row validation messages shown to operators.
const (
	MsgInvalidNationalID = "CPF inválido"
	MsgNameRequired      = "Nome obrigatório"
	MsgAmountNotPositive = "Valor deve ser maior que zero"
	MsgInvalidDueDate    = "Data de vencimento inválida"
)

// Record is one spreadsheet row converted to typed canonical fields.
type Record struct {
	Line           int
	NationalID     string
	Name           string
	Amount         decimal.Decimal
	DueDate        *time.Time
	BirthDate      *time.Time
	Sex            *domain.Sex
	Phone          string
	Email          string
	ContractNumber string
	Status         domain.ContractStatus
	ContractDate   *time.Time
	Address        string
	City           string
	State          string
	ZipCode        string
}

// Validate returns every failing required-field check, in field order.
func (r *Record) Validate() []string {
	var errs []string
	if !IsValidNationalID(r.NationalID) {
		errs = append(errs, MsgInvalidNationalID)
	}
	if r.Name == "" {
		errs = append(errs, MsgNameRequired)
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, MsgAmountNotPositive)
	}
	if r.DueDate == nil {
		errs = append(errs, MsgInvalidDueDate)
	}
	return errs
}

// RowReader converts batch rows to records using a resolved column mapping.
type RowReader struct {
	source  domain.SourceFormat
	columns map[string]int
}

// NewRowReader binds mapping to the header positions of batch.
func NewRowReader(batch *domain.Batch, mapping domain.ColumnMapping) *RowReader {
	pos := make(map[string]int, len(batch.Headers))
	for i, h := range batch.Headers {
		key := strings.TrimSpace(h)
		if _, seen := pos[key]; !seen {
			pos[key] = i
		}
	}
	columns := make(map[string]int, len(mapping))
	for field, header := range mapping {
		if i, ok := pos[strings.TrimSpace(header)]; ok {
			columns[field] = i
		}
	}
	return &RowReader{source: batch.Source, columns: columns}
}

func (rr *RowReader) cell(row domain.BatchRow, field string) string {
	i, ok := rr.columns[field]
	if !ok || i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i]
}

// IdentityOf returns the normalized national id of row without parsing
// the other fields.
func (rr *RowReader) IdentityOf(row domain.BatchRow) string {
	return NormalizeNationalID(rr.cell(row, FieldNationalID))
}

// Read normalizes every mapped field of row.
func (rr *RowReader) Read(row domain.BatchRow) Record {
	rec := Record{
		Line:           row.Line,
		NationalID:     rr.IdentityOf(row),
		Name:           NormalizeText(rr.cell(row, FieldName)),
		Amount:         ParseAmount(rr.cell(row, FieldAmount), rr.source),
		Phone:          NormalizePhone(rr.cell(row, FieldPhone)),
		Email:          NormalizeEmail(rr.cell(row, FieldEmail)),
		ContractNumber: NormalizeText(rr.cell(row, FieldContractNumber)),
		Status:         domain.ParseContractStatus(NormalizeText(rr.cell(row, FieldStatus))),
		Address:        NormalizeText(rr.cell(row, FieldAddress)),
		City:           NormalizeText(rr.cell(row, FieldCity)),
		State:          NormalizeState(rr.cell(row, FieldState)),
		ZipCode:        NormalizeText(rr.cell(row, FieldZipCode)),
	}
	if t, ok := ParseDate(rr.cell(row, FieldDueDate), rr.source); ok {
		rec.DueDate = &t
	}
	if t, ok := ParseDate(rr.cell(row, FieldBirthDate), rr.source); ok {
		rec.BirthDate = &t
	}
	if t, ok := ParseDate(rr.cell(row, FieldContractDate), rr.source); ok {
		rec.ContractDate = &t
	}
	if sex, ok := domain.ParseSex(NormalizeText(rr.cell(row, FieldSex))); ok {
		rec.Sex = &sex
	}
	return rec
}
