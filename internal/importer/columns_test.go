package importer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cordoba/internal/domain"
	"cordoba/internal/importer"
)

func TestResolveColumns_MatchesAliasesCaseInsensitively(t *testing.T) {
	mapping, err := importer.ResolveColumns([]string{" Documento ", "Cliente", "VALOR_DIVIDA", "Data_Vencimento", "UF", "Celular"})
	require.NoError(t, err)

	assert.Equal(t, domain.ColumnMapping{
		importer.FieldNationalID: "Documento",
		importer.FieldName:       "Cliente",
		importer.FieldAmount:     "VALOR_DIVIDA",
		importer.FieldDueDate:    "Data_Vencimento",
		importer.FieldState:      "UF",
		importer.FieldPhone:      "Celular",
	}, mapping)
}

func TestResolveColumns_FirstAliasWins(t *testing.T) {
	mapping, err := importer.ResolveColumns([]string{"id", "nome", "valor", "vencimento", "cpf"})
	require.NoError(t, err)
	assert.Equal(t, "cpf", mapping[importer.FieldNationalID])

	mapping, err = importer.ResolveColumns([]string{"id", "nome", "valor", "vencimento"})
	require.NoError(t, err)
	assert.Equal(t, "id", mapping[importer.FieldNationalID])
}

func TestResolveColumns_MissingRequiredField(t *testing.T) {
	_, err := importer.ResolveColumns([]string{"nome", "valor", "telefone"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredColumn)

	var missing *domain.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, importer.FieldNationalID, missing.Field)
	assert.Contains(t, missing.Tried, "documento")
}

func TestResolveColumns_OptionalFieldsAreOmittedWhenAbsent(t *testing.T) {
	mapping, err := importer.ResolveColumns([]string{"cpf", "nome", "valor", "vencimento"})
	require.NoError(t, err)

	assert.Len(t, mapping, 4)
	_, ok := mapping[importer.FieldEmail]
	assert.False(t, ok)
}

func TestAllFields_RequiredFirst(t *testing.T) {
	fields := importer.AllFields()

	require.Len(t, fields, len(importer.RequiredFields)+len(importer.OptionalFields))
	for i, f := range fields {
		assert.Equal(t, i < len(importer.RequiredFields), f.Required, f.Name)
		assert.NotEmpty(t, f.Aliases, f.Name)
		assert.Equal(t, f.Name, f.Aliases[0], "canonical name must be the first alias of %s", f.Name)
	}
}
