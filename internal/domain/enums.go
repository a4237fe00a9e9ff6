package domain

import "strings"

// UserRole represents the role of a user.
type UserRole string

const (
	RoleDirector UserRole = "diretor"
	RoleManager  UserRole = "gerente"
	RoleOperator UserRole = "operador"
)

// ValidUserRoles lists the roles accepted by the API.
var ValidUserRoles = []UserRole{RoleDirector, RoleManager, RoleOperator}

// ParseUserRole normalizes a role read from storage, a token or a request.
// Unknown values return false.
func ParseUserRole(s string) (UserRole, bool) {
	switch token(s) {
	case "diretor", "director":
		return RoleDirector, true
	case "gerente", "manager":
		return RoleManager, true
	case "operador", "operator":
		return RoleOperator, true
	}
	return "", false
}

// HasGlobalAccess reports whether the role sees every tenant.
func (r UserRole) HasGlobalAccess() bool {
	return r == RoleDirector
}

// Sex is the canonical debtor sex code.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "O"
)

// ParseSex maps a free-text value to a Sex. Empty input returns false;
// any unrecognised non-empty value is SexOther.
func ParseSex(s string) (Sex, bool) {
	switch t := strings.ToUpper(strings.TrimSpace(s)); t {
	case "":
		return "", false
	case "M", "MASCULINO", "MASC", "MALE":
		return SexMale, true
	case "F", "FEMININO", "FEM", "FEMALE":
		return SexFemale, true
	default:
		return SexOther, true
	}
}

// ContractStatus represents the lifecycle status of a contract.
type ContractStatus string

const (
	ContractActive     ContractStatus = "ativo"
	ContractPaid       ContractStatus = "pago"
	ContractOverdue    ContractStatus = "atrasado"
	ContractCancelled  ContractStatus = "cancelado"
	ContractNegotiated ContractStatus = "negociado"
)

// ValidContractStatuses lists every contract status.
var ValidContractStatuses = []ContractStatus{
	ContractActive, ContractPaid, ContractOverdue, ContractCancelled, ContractNegotiated,
}

// ParseContractStatus maps synonyms to a canonical status. Anything
// unrecognised, including empty input, is ContractActive.
func ParseContractStatus(s string) ContractStatus {
	switch token(s) {
	case "pago", "quitado", "paid":
		return ContractPaid
	case "atrasado", "atraso", "vencido", "late", "overdue":
		return ContractOverdue
	case "cancelado", "cancelled", "canceled":
		return ContractCancelled
	case "negociado", "renegociado":
		return ContractNegotiated
	default:
		return ContractActive
	}
}

// LookupContractStatus is the strict variant used for request input.
func LookupContractStatus(s string) (ContractStatus, bool) {
	t := ContractStatus(token(s))
	for _, v := range ValidContractStatuses {
		if v == t {
			return v, true
		}
	}
	return "", false
}

// ImportType tags an import run with the operator's intent.
type ImportType string

const (
	ImportNewBase     ImportType = "nova_base"
	ImportUpdate      ImportType = "atualizacao"
	ImportIncremental ImportType = "incremental"
)

// ParseImportType normalizes the tipo query parameter. Empty input
// defaults to ImportIncremental.
func ParseImportType(s string) (ImportType, bool) {
	switch token(s) {
	case "":
		return ImportIncremental, true
	case "nova_base":
		return ImportNewBase, true
	case "atualizacao":
		return ImportUpdate, true
	case "incremental":
		return ImportIncremental, true
	}
	return "", false
}

// ImportStatus is the lifecycle status of an import run.
type ImportStatus string

const (
	ImportPending    ImportStatus = "pendente"
	ImportProcessing ImportStatus = "processando"
	ImportDone       ImportStatus = "concluido"
	ImportError      ImportStatus = "erro"
	ImportCancelled  ImportStatus = "cancelado"
)

// RowClassification is the verdict for one spreadsheet row.
type RowClassification string

const (
	RowNew       RowClassification = "novo"
	RowUpdate    RowClassification = "atualizar"
	RowDuplicate RowClassification = "duplicado"
	RowInvalid   RowClassification = "erro"
)

// RowAction is the write the commit would perform for a row.
type RowAction string

const (
	ActionCreate RowAction = "criar"
	ActionUpdate RowAction = "atualizar"
	ActionSkip   RowAction = "ignorar"
)

// DuplicatePrecedence decides whether a repeated ID or a validation failure
// wins when a row has both.
type DuplicatePrecedence string

const (
	DuplicateFirst DuplicatePrecedence = "duplicate_first"
	InvalidFirst   DuplicatePrecedence = "invalid_first"
)

// ParseDuplicatePrecedence defaults to DuplicateFirst.
func ParseDuplicatePrecedence(s string) DuplicatePrecedence {
	if token(s) == string(InvalidFirst) {
		return InvalidFirst
	}
	return DuplicateFirst
}

func token(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
