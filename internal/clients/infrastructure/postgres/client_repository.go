package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	clients "energia-cloud/internal/clients/domain"
	"energia-cloud/internal/database"
	invoices "energia-cloud/internal/invoices/domain"
)

const clientColumns = `id_cliente, cnpj, nome_empresa, nome_da_unidade, url_logo, endereco, cidade, estado,
	subgrupo, classe, modalidade_contrato, id_unico_concessionaria, has_geracao_distribuida,
	data_criacao, data_atualizacao`

// ClientRepository is a Postgres implementation of clients.Repository.
type ClientRepository struct {
	db database.DBTX
}

// NewClientRepository constructs a repository.
func NewClientRepository(db database.DBTX) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a client. A taken CNPJ yields clients.ErrDuplicateTaxID.
func (r *ClientRepository) Create(ctx context.Context, fields clients.Fields) (*clients.Client, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("client repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
INSERT INTO clientes (
	cnpj, nome_empresa, nome_da_unidade, url_logo, endereco, cidade, estado,
	subgrupo, classe, modalidade_contrato, id_unico_concessionaria, has_geracao_distribuida
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)
RETURNING `+clientColumns, fieldArgs(fields)...)
	client, err := scanClient(row)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, clients.ErrDuplicateTaxID
		}
		return nil, fmt.Errorf("client repo: insert: %w", err)
	}
	return client, nil
}

// List returns a page ordered by id.
func (r *ClientRepository) List(ctx context.Context, page clients.Page) ([]clients.Client, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("client repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+clientColumns+`
FROM clientes
ORDER BY id_cliente
LIMIT $1 OFFSET $2`, page.Limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("client repo: list: %w", err)
	}
	defer rows.Close()

	result := make([]clients.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("client repo: scan: %w", err)
		}
		result = append(result, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("client repo: list: %w", err)
	}
	return result, nil
}

// Get loads a client by id.
func (r *ClientRepository) Get(ctx context.Context, id int64) (*clients.Client, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("client repo: nil db")
	}
	if !database.SerialInRange(id) {
		return nil, clients.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+clientColumns+`
FROM clientes
WHERE id_cliente = $1`, id)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, clients.ErrNotFound
		}
		return nil, fmt.Errorf("client repo: get: %w", err)
	}
	return client, nil
}

// Replace overwrites every mutable column of an existing client.
func (r *ClientRepository) Replace(ctx context.Context, id int64, fields clients.Fields) (*clients.Client, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("client repo: nil db")
	}
	if !database.SerialInRange(id) {
		return nil, clients.ErrNotFound
	}
	args := append(fieldArgs(fields), id)
	row := r.db.QueryRowContext(ctx, `
UPDATE clientes SET
	cnpj = $1,
	nome_empresa = $2,
	nome_da_unidade = $3,
	url_logo = $4,
	endereco = $5,
	cidade = $6,
	estado = $7,
	subgrupo = $8,
	classe = $9,
	modalidade_contrato = $10,
	id_unico_concessionaria = $11,
	has_geracao_distribuida = $12,
	data_atualizacao = NOW()
WHERE id_cliente = $13
RETURNING `+clientColumns, args...)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, clients.ErrNotFound
		}
		if database.IsUniqueViolation(err) {
			return nil, clients.ErrDuplicateTaxID
		}
		return nil, fmt.Errorf("client repo: update: %w", err)
	}
	return client, nil
}

// Delete removes a client; its invoices go with it through ON DELETE CASCADE.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	if r == nil || r.db == nil {
		return errors.New("client repo: nil db")
	}
	if !database.SerialInRange(id) {
		return clients.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM clientes WHERE id_cliente = $1`, id)
	if err != nil {
		return fmt.Errorf("client repo: delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("client repo: delete: %w", err)
	}
	if affected == 0 {
		return clients.ErrNotFound
	}
	return nil
}

// Count returns the number of stored clients.
func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("client repo: nil db")
	}
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clientes`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func fieldArgs(f clients.Fields) []any {
	return []any{
		f.TaxID,
		f.CompanyName,
		f.SiteName,
		f.LogoURL,
		f.Address,
		f.City,
		f.State,
		f.Subgroup,
		f.Class,
		f.ContractModality,
		f.DistributorID,
		f.HasDistributedGen,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*clients.Client, error) {
	var c clients.Client
	if err := row.Scan(
		&c.ID,
		&c.TaxID,
		&c.CompanyName,
		&c.SiteName,
		&c.LogoURL,
		&c.Address,
		&c.City,
		&c.State,
		&c.Subgroup,
		&c.Class,
		&c.ContractModality,
		&c.DistributorID,
		&c.HasDistributedGen,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	c.Invoices = []invoices.Invoice{}
	return &c, nil
}
