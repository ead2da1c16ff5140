package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no settings row exists for the company yet.
var ErrNotFound = errors.New("settings: not found")

// Repository provides data access for company settings.
type Repository interface {
	Get(ctx context.Context, companyID int64) (*CompanySettings, error)
	Upsert(ctx context.Context, s CompanySettings) (*CompanySettings, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, companyID int64) (*CompanySettings, error) {
	query := `
		SELECT company_id, company_name, address, phone, email, gstin,
		       logo_data, bank_name, bank_account, bank_ifsc, upi_id, updated_at
		FROM company_settings WHERE company_id = $1`

	var s CompanySettings
	err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&s.CompanyID, &s.CompanyName, &s.Address, &s.Phone, &s.Email, &s.GSTIN,
		&s.LogoData, &s.BankName, &s.BankAccount, &s.BankIFSC, &s.UPIID, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Upsert(ctx context.Context, s CompanySettings) (*CompanySettings, error) {
	query := `
		INSERT INTO company_settings (
			company_id, company_name, address, phone, email, gstin,
			logo_data, bank_name, bank_account, bank_ifsc, upi_id, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (company_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			gstin = EXCLUDED.gstin,
			logo_data = EXCLUDED.logo_data,
			bank_name = EXCLUDED.bank_name,
			bank_account = EXCLUDED.bank_account,
			bank_ifsc = EXCLUDED.bank_ifsc,
			upi_id = EXCLUDED.upi_id,
			updated_at = NOW()
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		s.CompanyID, s.CompanyName, s.Address, s.Phone, s.Email, s.GSTIN,
		s.LogoData, s.BankName, s.BankAccount, s.BankIFSC, s.UPIID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
