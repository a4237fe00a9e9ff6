package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cordoba/internal/domain"
	"cordoba/internal/port"
)

const displayNameLength = 50

// ExistingSnapshot is the stored debtor shown next to an UPDATE row.
type ExistingSnapshot struct {
	Name  string `json:"nome"`
	Phone string `json:"telefone"`
	Email string `json:"email"`
}

// RowOutcome is the verdict for one row of a batch.
type RowOutcome struct {
	Line           int                      `json:"linha"`
	MaskedID       string                   `json:"cpf"`
	Name           string                   `json:"nome"`
	Amount         *decimal.Decimal         `json:"valor,omitempty"`
	DueDate        string                   `json:"vencimento,omitempty"`
	Classification domain.RowClassification `json:"status_validacao"`
	Action         domain.RowAction         `json:"acao"`
	Errors         []string                 `json:"erros"`
	Existing       *ExistingSnapshot        `json:"dados_existentes,omitempty"`
}

// Summary counts outcomes per classification.
type Summary struct {
	Total     int
	New       int
	Update    int
	Duplicate int
	Invalid   int
}

func (s *Summary) add(c domain.RowClassification) {
	switch c {
	case domain.RowNew:
		s.New++
	case domain.RowUpdate:
		s.Update++
	case domain.RowDuplicate:
		s.Duplicate++
	case domain.RowInvalid:
		s.Invalid++
	}
}

// Analysis is the classification of a whole batch.
type Analysis struct {
	Outcomes []RowOutcome
	Summary  Summary
}

// Classifier assigns every row of a batch exactly one of NEW, UPDATE,
// DUPLICATE or INVALID.
type Classifier struct {
	debtors    port.DebtorRepository
	precedence domain.DuplicatePrecedence
}

// NewClassifier creates a Classifier that looks existing debtors up in debtors.
func NewClassifier(debtors port.DebtorRepository, precedence domain.DuplicatePrecedence) *Classifier {
	if precedence == "" {
		precedence = domain.DuplicateFirst
	}
	return &Classifier{debtors: debtors, precedence: precedence}
}

// Classify analyzes batch for tenantID without writing anything.
func (c *Classifier) Classify(ctx context.Context, tenantID uuid.UUID, batch *domain.Batch, mapping domain.ColumnMapping) (*Analysis, error) {
	reader := NewRowReader(batch, mapping)

	existing, err := c.debtors.FindByNationalIDs(ctx, tenantID, candidateIDs(reader, batch))
	if err != nil {
		return nil, fmt.Errorf("classifier.Classify: %w", err)
	}

	analysis := &Analysis{
		Outcomes: make([]RowOutcome, 0, len(batch.Rows)),
		Summary:  Summary{Total: len(batch.Rows)},
	}
	seen := make(map[string]struct{}, len(batch.Rows))
	for _, row := range batch.Rows {
		rec := reader.Read(row)
		out := c.classifyRecord(&rec, seen, existing)
		if rec.NationalID != "" {
			seen[rec.NationalID] = struct{}{}
		}
		analysis.Summary.add(out.Classification)
		analysis.Outcomes = append(analysis.Outcomes, out)
	}
	return analysis, nil
}

func (c *Classifier) classifyRecord(rec *Record, seen map[string]struct{}, existing map[string]domain.Debtor) RowOutcome {
	out := newOutcome(rec)

	_, repeated := seen[rec.NationalID]
	repeated = repeated && rec.NationalID != ""
	errs := rec.Validate()

	switch {
	case repeated && (c.precedence == domain.DuplicateFirst || len(errs) == 0):
		out.Classification = domain.RowDuplicate
		out.Action = domain.ActionSkip
		out.Errors = []string{"CPF duplicado no arquivo"}
	case len(errs) > 0:
		out.Classification = domain.RowInvalid
		out.Action = domain.ActionSkip
		out.Errors = errs
	default:
		if d, ok := existing[rec.NationalID]; ok {
			out.Classification = domain.RowUpdate
			out.Action = domain.ActionUpdate
			out.Existing = &ExistingSnapshot{Name: d.Name, Phone: d.Phone, Email: d.Email}
		} else {
			out.Classification = domain.RowNew
			out.Action = domain.ActionCreate
		}
	}
	return out
}

func newOutcome(rec *Record) RowOutcome {
	out := RowOutcome{
		Line:     rec.Line,
		MaskedID: MaskNationalID(rec.NationalID),
		Name:     Truncate(rec.Name, displayNameLength),
		Errors:   []string{},
	}
	if rec.Amount.IsPositive() {
		amount := rec.Amount
		out.Amount = &amount
	}
	if rec.DueDate != nil {
		out.DueDate = rec.DueDate.Format("2006-01-02")
	}
	return out
}

// candidateIDs returns the distinct valid national ids of batch.
func candidateIDs(reader *RowReader, batch *domain.Batch) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, row := range batch.Rows {
		id := reader.IdentityOf(row)
		if !IsValidNationalID(id) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
