package gst

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerly-erp/ledgerly/internal/billing/totals"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summarize builds the period rollup. Bucket values are rounded for
// display here, at the boundary; the SQL sums stay exact.
func (s *Service) Summarize(ctx context.Context, companyID int64, from, to time.Time) (*Summary, error) {
	buckets, err := s.repo.RateBuckets(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("summarize gst: %w", err)
	}

	summary := Summary{
		CompanyID: companyID,
		From:      from,
		To:        to,
		Buckets:   make([]RateBucket, 0, len(buckets)),
	}
	for _, b := range buckets {
		summary.TotalTaxableValue += b.TaxableValue
		summary.TotalTaxAmount += b.TaxAmount
		b.TaxableValue = totals.Round2(b.TaxableValue)
		b.TaxAmount = totals.Round2(b.TaxAmount)
		summary.Buckets = append(summary.Buckets, b)
	}
	summary.TotalTaxableValue = totals.Round2(summary.TotalTaxableValue)
	summary.TotalTaxAmount = totals.Round2(summary.TotalTaxAmount)
	return &summary, nil
}
