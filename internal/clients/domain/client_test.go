package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energia-cloud/internal/validation"
)

func s(v string) *string { return &v }

func TestFieldsNormalize(t *testing.T) {
	fields := Fields{
		TaxID:       " 12345678901234 ",
		CompanyName: " ACME ",
		SiteName:    s("   "),
		City:        s(" Porto Alegre "),
		State:       s("rs"),
	}.Normalize()

	assert.Equal(t, "12345678901234", fields.TaxID)
	assert.Equal(t, "ACME", fields.CompanyName)
	assert.Nil(t, fields.SiteName)
	require.NotNil(t, fields.City)
	assert.Equal(t, "Porto Alegre", *fields.City)
	require.NotNil(t, fields.State)
	assert.Equal(t, "RS", *fields.State)
}

func TestFieldsValidate(t *testing.T) {
	require.NoError(t, Fields{TaxID: "12345678901234", CompanyName: "ACME"}.Validate())
	require.NoError(t, Fields{TaxID: "12.345.678/0001-90", CompanyName: "ACME", State: s("SP")}.Validate())

	err := Fields{TaxID: "1234567890123", State: s("SPX")}.Validate()
	errs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, errs.Has("cnpj"))
	assert.True(t, errs.Has("nome_empresa"))
	assert.True(t, errs.Has("estado"))

	errs, ok = validation.As(Fields{TaxID: "ÁÁÁÁÁÁÁ", CompanyName: "ACME", State: s("SÃ")}.Validate())
	require.True(t, ok)
	assert.True(t, errs.Has("cnpj"))
	assert.False(t, errs.Has("estado"))
}

func TestClientApply(t *testing.T) {
	c := Client{ID: 3, TaxID: "old", City: s("Recife")}
	c.Apply(Fields{TaxID: "12345678901234", CompanyName: "ACME", HasDistributedGen: true})

	assert.Equal(t, int64(3), c.ID)
	assert.Equal(t, "12345678901234", c.TaxID)
	assert.Nil(t, c.City)
	assert.True(t, c.HasDistributedGen)
}
