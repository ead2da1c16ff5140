package settings

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the issuer settings for a company. Callers that render
// documents treat ErrNotFound as "print blank header", not as a failure.
func (s *Service) Get(ctx context.Context, companyID int64) (*CompanySettings, error) {
	return s.repo.Get(ctx, companyID)
}

func (s *Service) Upsert(ctx context.Context, companyID int64, req UpsertSettingsRequest) (*CompanySettings, error) {
	stored, err := s.repo.Upsert(ctx, CompanySettings{
		CompanyID:   companyID,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		GSTIN:       req.GSTIN,
		LogoData:    req.LogoData,
		BankName:    req.BankName,
		BankAccount: req.BankAccount,
		BankIFSC:    req.BankIFSC,
		UPIID:       req.UPIID,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert settings: %w", err)
	}
	return stored, nil
}
