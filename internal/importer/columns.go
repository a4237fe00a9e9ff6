package importer

import (
	"strings"

	"cordoba/internal/domain"
)

// Canonical field names.
const (
	FieldNationalID     = "cpf"
	FieldName           = "nome"
	FieldAmount         = "valor"
	FieldDueDate        = "vencimento"
	FieldBirthDate      = "data_nascimento"
	FieldSex            = "sexo"
	FieldPhone          = "telefone"
	FieldEmail          = "email"
	FieldContractNumber = "numero_contrato"
	FieldStatus         = "status"
	FieldContractDate   = "data_contrato"
	FieldAddress        = "endereco"
	FieldCity           = "cidade"
	FieldState          = "estado"
	FieldZipCode        = "cep"
)

// Field describes one canonical column accepted by the importer.
type Field struct {
	Name        string   `json:"nome"`
	Description string   `json:"descricao"`
	Type        string   `json:"tipo"`
	Example     string   `json:"exemplo"`
	Aliases     []string `json:"alternativas"`
	Required    bool     `json:"-"`
}

// RequiredFields must all be present in an uploaded file.
var RequiredFields = []Field{
	{
		Name:        FieldNationalID,
		Description: "CPF do devedor (somente números ou com formatação)",
		Type:        "texto",
		Example:     "123.456.789-00",
		Aliases:     []string{"cpf", "cpf_cnpj", "documento", "doc", "id_doc", "document", "id"},
		Required:    true,
	},
	{
		Name:        FieldName,
		Description: "Nome completo do devedor",
		Type:        "texto",
		Example:     "João da Silva",
		Aliases:     []string{"nome", "name", "cliente", "devedor", "nome_cliente", "client", "debtor"},
		Required:    true,
	},
	{
		Name:        FieldAmount,
		Description: "Valor da dívida",
		Type:        "numérico",
		Example:     "1500.00",
		Aliases: []string{"valor", "valor_original", "value", "divida", "valor_divida", "valor_devido",
			"amount", "original_amount", "debt"},
		Required: true,
	},
	{
		Name:        FieldDueDate,
		Description: "Data de vencimento da dívida",
		Type:        "data",
		Example:     "2024-12-31",
		Aliases:     []string{"vencimento", "data_vencimento", "dt_vencimento", "due_date", "data_vcto", "expiration"},
		Required:    true,
	},
}

// OptionalFields are mapped when found and ignored otherwise.
var OptionalFields = []Field{
	{Name: FieldBirthDate, Description: "Data de nascimento do devedor", Type: "data", Example: "1985-05-15",
		Aliases: []string{"data_nascimento", "nascimento", "dt_nascimento", "birth_date", "dt_nasc"}},
	{Name: FieldSex, Description: "Sexo (M/F)", Type: "texto", Example: "M",
		Aliases: []string{"sexo", "genero", "gender", "sex"}},
	{Name: FieldPhone, Description: "Telefone de contato", Type: "texto", Example: "(11) 99999-8888",
		Aliases: []string{"telefone", "tel", "phone", "celular", "fone", "contato"}},
	{Name: FieldEmail, Description: "E-mail do devedor", Type: "texto", Example: "joao@email.com",
		Aliases: []string{"email", "e-mail", "mail"}},
	{Name: FieldContractNumber, Description: "Número do contrato", Type: "texto", Example: "CTR-2024-001",
		Aliases: []string{"numero_contrato", "contrato", "num_contrato", "contract", "nro_contrato"}},
	{Name: FieldStatus, Description: "Status do contrato (ativo, atrasado, pago)", Type: "texto", Example: "ativo",
		Aliases: []string{"status", "situacao", "status_contrato"}},
	{Name: FieldContractDate, Description: "Data de emissão do contrato", Type: "data", Example: "2024-01-15",
		Aliases: []string{"data_contrato", "dt_contrato", "data_emissao"}},
	{Name: FieldAddress, Description: "Endereço completo", Type: "texto", Example: "Rua das Flores, 123",
		Aliases: []string{"endereco", "address", "logradouro", "rua"}},
	{Name: FieldCity, Description: "Cidade", Type: "texto", Example: "São Paulo",
		Aliases: []string{"cidade", "city", "municipio"}},
	{Name: FieldState, Description: "Estado (UF)", Type: "texto", Example: "SP",
		Aliases: []string{"estado", "uf", "state"}},
	{Name: FieldZipCode, Description: "CEP", Type: "texto", Example: "01234-567",
		Aliases: []string{"cep", "zip", "postal_code"}},
}

// AllFields returns required fields followed by optional ones.
func AllFields() []Field {
	out := make([]Field, 0, len(RequiredFields)+len(OptionalFields))
	out = append(out, RequiredFields...)
	return append(out, OptionalFields...)
}

// ResolveColumns maps each canonical field to the header that matches one of
// its aliases. Matching is case-insensitive on trimmed headers and the first
// alias in list order wins. A missing required field yields a
// *domain.MissingColumnError.
func ResolveColumns(headers []string) (domain.ColumnMapping, error) {
	index := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, dup := index[key]; !dup {
			index[key] = strings.TrimSpace(h)
		}
	}

	mapping := make(domain.ColumnMapping)
	for _, f := range RequiredFields {
		header, ok := matchField(f, index)
		if !ok {
			return nil, &domain.MissingColumnError{Field: f.Name, Tried: f.Aliases}
		}
		mapping[f.Name] = header
	}
	for _, f := range OptionalFields {
		if header, ok := matchField(f, index); ok {
			mapping[f.Name] = header
		}
	}
	return mapping, nil
}

func matchField(f Field, index map[string]string) (string, bool) {
	for _, alias := range f.Aliases {
		if header, ok := index[alias]; ok {
			return header, true
		}
	}
	return "", false
}
