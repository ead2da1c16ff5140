package gst

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	buckets []RateBucket
}

func (r stubRepo) RateBuckets(ctx context.Context, companyID int64, from, to time.Time) ([]RateBucket, error) {
	return r.buckets, nil
}

func TestSummarizeRollsUpAndRounds(t *testing.T) {
	svc := NewService(stubRepo{buckets: []RateBucket{
		{TaxRatePercent: 5, TaxableValue: 1000.004, TaxAmount: 50.0002, InvoiceCount: 3},
		{TaxRatePercent: 18, TaxableValue: 180, TaxAmount: 32.4, InvoiceCount: 1},
	}})

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	got, err := svc.Summarize(context.Background(), 1, from, to)
	require.NoError(t, err)
	require.Len(t, got.Buckets, 2)
	require.Equal(t, 1000.0, got.Buckets[0].TaxableValue)
	require.Equal(t, 50.0, got.Buckets[0].TaxAmount)
	require.Equal(t, 1180.0, got.TotalTaxableValue)
	require.Equal(t, 82.4, got.TotalTaxAmount)
}

func TestSummarizeEmptyPeriod(t *testing.T) {
	svc := NewService(stubRepo{})

	got, err := svc.Summarize(context.Background(), 1, time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Empty(t, got.Buckets)
	require.Zero(t, got.TotalTaxAmount)
	require.Zero(t, got.TotalTaxableValue)
}
