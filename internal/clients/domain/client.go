package clients

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	invoices "energia-cloud/internal/invoices/domain"
	"energia-cloud/internal/validation"
)

// MinTaxIDLength is the shortest accepted CNPJ, with or without punctuation.
const MinTaxIDLength = validation.MinTaxIDLength

// DefaultListLimit is the page size when the caller gives none.
const DefaultListLimit = 100

// Client is a billed consumption site or company (unidade consumidora).
type Client struct {
	ID                int64              `json:"id_cliente"`
	TaxID             string             `json:"cnpj"`
	CompanyName       string             `json:"nome_empresa"`
	SiteName          *string            `json:"nome_da_unidade"`
	LogoURL           *string            `json:"url_logo"`
	Address           *string            `json:"endereco"`
	City              *string            `json:"cidade"`
	State             *string            `json:"estado"`
	Subgroup          *string            `json:"subgrupo"`
	Class             *string            `json:"classe"`
	ContractModality  *string            `json:"modalidade_contrato"`
	DistributorID     *string            `json:"id_unico_concessionaria"`
	HasDistributedGen bool               `json:"has_geracao_distribuida"`
	CreatedAt         time.Time          `json:"data_criacao"`
	UpdatedAt         time.Time          `json:"data_atualizacao"`
	Invoices          []invoices.Invoice `json:"faturas"`
}

// Fields holds every mutable client attribute. Replace overwrites all of them.
type Fields struct {
	TaxID             string
	CompanyName       string
	SiteName          *string
	LogoURL           *string
	Address           *string
	City              *string
	State             *string
	Subgroup          *string
	Class             *string
	ContractModality  *string
	DistributorID     *string
	HasDistributedGen bool
}

// Normalize trims text fields and turns blank optional values into nil.
func (f Fields) Normalize() Fields {
	f.TaxID = strings.TrimSpace(f.TaxID)
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	for _, p := range []**string{
		&f.SiteName, &f.LogoURL, &f.Address, &f.City, &f.State,
		&f.Subgroup, &f.Class, &f.ContractModality, &f.DistributorID,
	} {
		*p = trimOptional(*p)
	}
	if f.State != nil {
		upper := strings.ToUpper(*f.State)
		f.State = &upper
	}
	return f
}

// Validate checks the client invariants.
func (f Fields) Validate() error {
	var errs validation.Errors
	if utf8.RuneCountInString(f.TaxID) < MinTaxIDLength {
		errs = errs.Add("cnpj", "CNPJ inválido")
	}
	if f.CompanyName == "" {
		errs = errs.Add("nome_empresa", "campo obrigatório")
	}
	if f.State != nil && utf8.RuneCountInString(*f.State) != 2 {
		errs = errs.Add("estado", "deve ter 2 letras")
	}
	return errs.OrNil()
}

// Apply copies fields onto the client.
func (c *Client) Apply(f Fields) {
	c.TaxID = f.TaxID
	c.CompanyName = f.CompanyName
	c.SiteName = f.SiteName
	c.LogoURL = f.LogoURL
	c.Address = f.Address
	c.City = f.City
	c.State = f.State
	c.Subgroup = f.Subgroup
	c.Class = f.Class
	c.ContractModality = f.ContractModality
	c.DistributorID = f.DistributorID
	c.HasDistributedGen = f.HasDistributedGen
}

// Page is an offset/limit window over the client list.
type Page struct {
	Skip  int
	Limit int
}

// Repository manages client persistence.
type Repository interface {
	Create(ctx context.Context, fields Fields) (*Client, error)
	List(ctx context.Context, page Page) ([]Client, error)
	Get(ctx context.Context, id int64) (*Client, error)
	Replace(ctx context.Context, id int64, fields Fields) (*Client, error)
	Delete(ctx context.Context, id int64) error
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
