package documents

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerly-erp/ledgerly/internal/billing/customers"
)

type memoryRepo struct {
	nextID     int64
	nextLineID int64
	docs       map[int64]*Document
	lines      map[int64][]Line
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{docs: map[int64]*Document{}, lines: map[int64][]Line{}}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *doc
	out.Lines = append([]Line(nil), r.lines[id]...)
	sort.Slice(out.Lines, func(i, j int) bool { return out.Lines[i].LineOrder < out.Lines[j].LineOrder })
	return &out, nil
}

func (r *memoryRepo) GetByNumber(ctx context.Context, companyID int64, number string) (*Document, error) {
	for id, doc := range r.docs {
		if doc.CompanyID == companyID && doc.Number == number {
			return r.Get(ctx, id)
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) List(ctx context.Context, req ListDocumentsRequest) ([]DocumentWithCustomer, int, error) {
	var out []DocumentWithCustomer
	for _, doc := range r.docs {
		if req.Kind != nil && doc.Kind != *req.Kind {
			continue
		}
		out = append(out, DocumentWithCustomer{Document: *doc})
	}
	return out, len(out), nil
}

func (r *memoryRepo) Create(ctx context.Context, doc Document) (int64, error) {
	r.nextID++
	doc.ID = r.nextID
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	r.docs[doc.ID] = &doc
	return doc.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	doc, ok := r.docs[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "issue_date":
			doc.IssueDate = v.(time.Time)
		case "due_date":
			doc.DueDate = v.(time.Time)
		case "currency":
			doc.Currency = v.(string)
		case "notes":
			s := v.(string)
			doc.Notes = &s
		case "freight":
			doc.Freight = v.(float64)
		case "packaging":
			doc.Packaging = v.(float64)
		case "miscellaneous":
			doc.Miscellaneous = v.(float64)
		case "subtotal":
			doc.Subtotal = v.(float64)
		case "tax_amount":
			doc.TaxAmount = v.(float64)
		case "additional_charges":
			doc.AdditionalCharges = v.(float64)
		case "total":
			doc.Total = v.(float64)
		}
	}
	doc.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepo) InsertLine(ctx context.Context, line Line) (int64, error) {
	r.nextLineID++
	line.ID = r.nextLineID
	r.lines[line.DocumentID] = append(r.lines[line.DocumentID], line)
	return line.ID, nil
}

func (r *memoryRepo) DeleteLines(ctx context.Context, documentID int64) error {
	delete(r.lines, documentID)
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	doc, ok := r.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = status
	doc.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepo) GenerateNumber(ctx context.Context, kind Kind, companyID int64, date time.Time) (string, error) {
	prefix := "INV"
	if kind == KindQuotation {
		prefix = "QTN"
	}
	head := fmt.Sprintf("%s-%s-", prefix, date.Format("200601"))
	highest := 0
	for _, doc := range r.docs {
		if doc.CompanyID != companyID || !strings.HasPrefix(doc.Number, head) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(doc.Number, head)); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%04d", head, highest+1), nil
}

type memoryCustomerRepo struct {
	customers map[int64]*customers.Customer
}

func (r *memoryCustomerRepo) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, customers.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *memoryCustomerRepo) List(ctx context.Context, req customers.ListCustomersRequest) ([]customers.Customer, int, error) {
	return nil, 0, nil
}

func (r *memoryCustomerRepo) Create(ctx context.Context, c customers.Customer) (int64, error) {
	return 0, nil
}

func (r *memoryCustomerRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return nil
}

func (r *memoryCustomerRepo) Deactivate(ctx context.Context, id int64) error {
	return nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	custRepo := &memoryCustomerRepo{customers: map[int64]*customers.Customer{
		7: {ID: 7, CompanyID: 1, Name: "Bharat Retail", IsActive: true},
		8: {ID: 8, CompanyID: 2, Name: "Deccan Supplies", IsActive: true},
	}}
	return NewService(repo, custRepo), repo
}

func createRequest(kind Kind) CreateDocumentRequest {
	issue := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	return CreateDocumentRequest{
		Kind:       kind,
		CompanyID:  1,
		CustomerID: 7,
		IssueDate:  issue,
		DueDate:    issue.AddDate(0, 1, 0),
		Currency:   "INR",
		Lines: []CreateLineRequest{
			{Description: "Widget", Quantity: 2, Rate: 100, DiscountPercent: 10, TaxPercent: 18},
		},
	}
}

func TestCreateInvoiceSnapshotsTotals(t *testing.T) {
	svc, _ := newTestService()

	doc, err := svc.Create(context.Background(), createRequest(KindInvoice))
	require.NoError(t, err)

	require.Equal(t, "INV-202604-0001", doc.Number)
	require.Equal(t, StatusUnpaid, doc.Status)
	require.Equal(t, 180.0, doc.Subtotal)
	require.Equal(t, 32.4, doc.TaxAmount)
	require.Equal(t, 212.4, doc.Total)
	require.Len(t, doc.Lines, 1)
	require.Equal(t, 180.0, doc.Lines[0].Amount)
}

func TestCreateQuotationOpensWithQTNNumber(t *testing.T) {
	svc, _ := newTestService()

	doc, err := svc.Create(context.Background(), createRequest(KindQuotation))
	require.NoError(t, err)
	require.Equal(t, "QTN-202604-0001", doc.Number)
	require.Equal(t, StatusOpen, doc.Status)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	req := createRequest(KindInvoice)
	req.DueDate = req.IssueDate.AddDate(0, 0, -1)
	_, err := svc.Create(ctx, req)
	require.Error(t, err)

	req = createRequest(KindInvoice)
	req.Currency = "XYZ"
	_, err = svc.Create(ctx, req)
	require.Error(t, err)

	req = createRequest(KindInvoice)
	req.CustomerID = 999
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, customers.ErrNotFound)
}

func TestCreateAllowsZeroLines(t *testing.T) {
	svc, _ := newTestService()

	req := createRequest(KindInvoice)
	req.Lines = nil
	doc, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Zero(t, doc.Subtotal)
	require.Zero(t, doc.Total)
	require.Empty(t, doc.Lines)
}

func TestUpdateReplacesLinesAndRefreshesSnapshot(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)

	newLines := []CreateLineRequest{
		{Description: "Gadget", Quantity: 1, Rate: 500, TaxPercent: 18},
		{Description: "Cable", Quantity: 3, Rate: 50, TaxPercent: 18},
	}
	freight := 25.0
	updated, err := svc.Update(ctx, doc.ID, UpdateDocumentRequest{Lines: &newLines, Freight: &freight})
	require.NoError(t, err)

	require.Len(t, updated.Lines, 2)
	require.Equal(t, 650.0, updated.Subtotal)
	require.Equal(t, 117.0, updated.TaxAmount)
	require.Equal(t, 25.0, updated.AdditionalCharges)
	require.Equal(t, 792.0, updated.Total)
}

func TestUpdateRejectsPaidInvoice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)

	repo.docs[doc.ID].PaidAmount = 100
	notes := "late fee waived"
	_, err = svc.Update(ctx, doc.ID, UpdateDocumentRequest{Notes: &notes})
	require.ErrorIs(t, err, ErrImmutable)
}

func TestApplyGlobalDiscountOverwritesLineDiscounts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)

	updated, err := svc.ApplyGlobalDiscount(ctx, doc.ID, 20)
	require.NoError(t, err)
	require.Equal(t, 20.0, updated.Lines[0].DiscountPercent)
	require.Equal(t, 160.0, updated.Lines[0].Amount)
	require.Equal(t, 160.0, updated.Subtotal)

	_, err = svc.ApplyGlobalDiscount(ctx, doc.ID, 101)
	require.Error(t, err)
}

func TestQuotationLifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, createRequest(KindQuotation))
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, accepted.Status)

	// terminal states stay closed
	_, err = svc.Decline(ctx, doc.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)

	notes := "revised pricing"
	_, err = svc.Update(ctx, doc.ID, UpdateDocumentRequest{Notes: &notes})
	require.ErrorIs(t, err, ErrImmutable)
}

func TestAcceptRejectsInvoice(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)

	_, err = svc.Accept(ctx, doc.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteRemovesMutableDocumentOnly(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)

	repo.docs[doc.ID].PaidAmount = 50
	require.ErrorIs(t, svc.Delete(ctx, doc.ID), ErrImmutable)

	repo.docs[doc.ID].PaidAmount = 0
	require.NoError(t, svc.Delete(ctx, doc.ID))
	_, err = svc.Get(ctx, doc.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNumbersIncrementPerKind(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)
	quote, err := svc.Create(ctx, createRequest(KindQuotation))
	require.NoError(t, err)

	require.Equal(t, "INV-202604-0001", first.Number)
	require.Equal(t, "INV-202604-0002", second.Number)
	require.Equal(t, "QTN-202604-0001", quote.Number)
}

func TestNumbersNeverReusedAfterDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)
	require.Equal(t, "INV-202604-0002", second.Number)

	require.NoError(t, svc.Delete(ctx, first.ID))

	// the sequence advances past the surviving maximum, it does not
	// recount the remaining rows
	third, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)
	require.Equal(t, "INV-202604-0003", third.Number)
}

func TestNumberSequencesIndependentPerCompany(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, createRequest(KindInvoice))
	require.NoError(t, err)
	require.Equal(t, "INV-202604-0001", first.Number)

	req := createRequest(KindInvoice)
	req.CompanyID = 2
	req.CustomerID = 8
	other, err := svc.Create(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "INV-202604-0001", other.Number)
	require.NotEqual(t, first.ID, other.ID)
}
