package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerly-erp/ledgerly/internal/billing/currency"
	"github.com/ledgerly-erp/ledgerly/internal/billing/customers"
	"github.com/ledgerly-erp/ledgerly/internal/billing/totals"
)

var (
	// ErrImmutable is returned when editing a document that has moved
	// past its editable state (paid-against invoice, closed quotation).
	ErrImmutable = errors.New("documents: document is no longer editable")
	// ErrInvalidStatus is returned for a disallowed status transition.
	ErrInvalidStatus = errors.New("documents: invalid status transition")
)

type Service struct {
	repo         Repository
	customerRepo customers.Repository
}

func NewService(repo Repository, customerRepo customers.Repository) *Service {
	return &Service{repo: repo, customerRepo: customerRepo}
}

func buildLines(reqs []CreateLineRequest) ([]totals.Line, error) {
	lines := make([]totals.Line, len(reqs))
	for i, lr := range reqs {
		line := totals.Line{
			Description:     lr.Description,
			Quantity:        lr.Quantity,
			Rate:            lr.Rate,
			DiscountPercent: lr.DiscountPercent,
			TaxPercent:      lr.TaxPercent,
		}
		if err := totals.RecomputeLine(&line); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines[i] = line
	}
	return lines, nil
}

func (s *Service) Create(ctx context.Context, req CreateDocumentRequest) (*Document, error) {
	if req.DueDate.Before(req.IssueDate) {
		return nil, errors.New("documents: due_date must not precede issue_date")
	}
	if !currency.IsSupported(req.Currency) {
		return nil, fmt.Errorf("documents: unsupported currency %q", req.Currency)
	}

	if _, err := s.customerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}

	calcLines, err := buildLines(req.Lines)
	if err != nil {
		return nil, err
	}
	charges := totals.Charges{
		Freight:       req.Freight,
		Packaging:     req.Packaging,
		Miscellaneous: req.Miscellaneous,
	}
	t := totals.Compute(calcLines, charges)

	status := StatusUnpaid
	if req.Kind == KindQuotation {
		status = StatusOpen
	}

	doc := Document{
		Kind:              req.Kind,
		CompanyID:         req.CompanyID,
		CustomerID:        req.CustomerID,
		IssueDate:         req.IssueDate,
		DueDate:           req.DueDate,
		Currency:          req.Currency,
		Freight:           req.Freight,
		Packaging:         req.Packaging,
		Miscellaneous:     req.Miscellaneous,
		Subtotal:          t.Subtotal,
		TaxAmount:         t.TaxAmount,
		AdditionalCharges: t.AdditionalCharges,
		Total:             t.Total,
		Status:            status,
		Notes:             req.Notes,
	}

	var docID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number, err := repo.GenerateNumber(ctx, req.Kind, req.CompanyID, req.IssueDate)
		if err != nil {
			return err
		}
		doc.Number = number

		docID, err = repo.Create(ctx, doc)
		if err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		for i, lr := range req.Lines {
			line := Line{
				DocumentID:      docID,
				LineOrder:       lr.LineOrder,
				Description:     lr.Description,
				HSNCode:         lr.HSNCode,
				ModelNumber:     lr.ModelNumber,
				Weight:          lr.Weight,
				Quantity:        lr.Quantity,
				Rate:            lr.Rate,
				DiscountPercent: lr.DiscountPercent,
				TaxPercent:      lr.TaxPercent,
				Amount:          calcLines[i].Amount,
			}
			if line.LineOrder == 0 {
				line.LineOrder = i + 1
			}
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, docID)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateDocumentRequest) (*Document, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if !existing.Mutable() {
		return nil, ErrImmutable
	}

	updates := make(map[string]interface{})
	if req.IssueDate != nil {
		updates["issue_date"] = *req.IssueDate
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Currency != nil {
		if !currency.IsSupported(*req.Currency) {
			return nil, fmt.Errorf("documents: unsupported currency %q", *req.Currency)
		}
		updates["currency"] = *req.Currency
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	charges := totals.Charges{
		Freight:       existing.Freight,
		Packaging:     existing.Packaging,
		Miscellaneous: existing.Miscellaneous,
	}
	if req.Freight != nil {
		charges.Freight = *req.Freight
		updates["freight"] = *req.Freight
	}
	if req.Packaging != nil {
		charges.Packaging = *req.Packaging
		updates["packaging"] = *req.Packaging
	}
	if req.Miscellaneous != nil {
		charges.Miscellaneous = *req.Miscellaneous
		updates["miscellaneous"] = *req.Miscellaneous
	}

	var newLines []Line
	calcLines := documentCalcLines(existing.Lines)
	if req.Lines != nil {
		calcLines, err = buildLines(*req.Lines)
		if err != nil {
			return nil, err
		}
		for i, lr := range *req.Lines {
			line := Line{
				DocumentID:      id,
				LineOrder:       lr.LineOrder,
				Description:     lr.Description,
				HSNCode:         lr.HSNCode,
				ModelNumber:     lr.ModelNumber,
				Weight:          lr.Weight,
				Quantity:        lr.Quantity,
				Rate:            lr.Rate,
				DiscountPercent: lr.DiscountPercent,
				TaxPercent:      lr.TaxPercent,
				Amount:          calcLines[i].Amount,
			}
			if line.LineOrder == 0 {
				line.LineOrder = i + 1
			}
			newLines = append(newLines, line)
		}
	}

	// Any edit that touches lines or charges refreshes the snapshot.
	if req.Lines != nil || req.Freight != nil || req.Packaging != nil || req.Miscellaneous != nil {
		t := totals.Compute(calcLines, charges)
		updates["subtotal"] = t.Subtotal
		updates["tax_amount"] = t.TaxAmount
		updates["additional_charges"] = t.AdditionalCharges
		updates["total"] = t.Total
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if len(updates) > 0 {
			if err := repo.Update(ctx, id, updates); err != nil {
				return err
			}
		}
		if req.Lines != nil {
			if err := repo.DeleteLines(ctx, id); err != nil {
				return err
			}
			for _, line := range newLines {
				if _, err := repo.InsertLine(ctx, line); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	return s.repo.Get(ctx, id)
}

// ApplyGlobalDiscount overwrites every line's discount with percent and
// refreshes the totals snapshot. Last write wins over per-line discounts.
func (s *Service) ApplyGlobalDiscount(ctx context.Context, id int64, percent float64) (*Document, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if !existing.Mutable() {
		return nil, ErrImmutable
	}

	calcLines, err := totals.ApplyGlobalDiscount(documentCalcLines(existing.Lines), percent)
	if err != nil {
		return nil, err
	}
	t := totals.Compute(calcLines, totals.Charges{
		Freight:       existing.Freight,
		Packaging:     existing.Packaging,
		Miscellaneous: existing.Miscellaneous,
	})

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.DeleteLines(ctx, id); err != nil {
			return err
		}
		for i, line := range existing.Lines {
			line.DiscountPercent = percent
			line.Amount = calcLines[i].Amount
			line.ID = 0
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return err
			}
		}
		return repo.Update(ctx, id, map[string]interface{}{
			"subtotal":           t.Subtotal,
			"tax_amount":         t.TaxAmount,
			"additional_charges": t.AdditionalCharges,
			"total":              t.Total,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("apply global discount: %w", err)
	}

	return s.repo.Get(ctx, id)
}

// Accept closes an open quotation as won.
func (s *Service) Accept(ctx context.Context, id int64) (*Document, error) {
	return s.closeQuotation(ctx, id, StatusAccepted)
}

// Decline closes an open quotation as lost.
func (s *Service) Decline(ctx context.Context, id int64) (*Document, error) {
	return s.closeQuotation(ctx, id, StatusDeclined)
}

func (s *Service) closeQuotation(ctx context.Context, id int64, status Status) (*Document, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if existing.Kind != KindQuotation {
		return nil, fmt.Errorf("%w: not a quotation", ErrInvalidStatus)
	}
	if existing.Status != StatusOpen {
		return nil, fmt.Errorf("%w: quotation is %s", ErrInvalidStatus, existing.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Document, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListDocumentsRequest) ([]DocumentWithCustomer, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	if !existing.Mutable() {
		return ErrImmutable
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.DeleteLines(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func documentCalcLines(lines []Line) []totals.Line {
	out := make([]totals.Line, len(lines))
	for i, l := range lines {
		out[i] = totals.Line{
			Description:     l.Description,
			Quantity:        l.Quantity,
			Rate:            l.Rate,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
			Amount:          l.Amount,
		}
	}
	return out
}
