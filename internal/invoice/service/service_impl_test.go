package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gembill/internal/clock"
	"github.com/smallbiznis/gembill/internal/invoice/apiclient"
	invoicedomain "github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/smallbiznis/gembill/internal/invoice/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) ListInvoices(ctx context.Context) ([]wire.Invoice, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]wire.Invoice)
	return items, args.Error(1)
}

func (m *mockBackend) GetInvoice(ctx context.Context, id string) (wire.Invoice, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(wire.Invoice), args.Error(1)
}

func (m *mockBackend) CreateInvoice(ctx context.Context, in wire.Invoice) (wire.Invoice, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(wire.Invoice), args.Error(1)
}

func (m *mockBackend) ReplaceInvoice(ctx context.Context, id string, in wire.Invoice) (wire.Invoice, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(wire.Invoice), args.Error(1)
}

func (m *mockBackend) DeleteInvoice(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type countingLock struct {
	acquired int
	released int
}

func (l *countingLock) Acquire(context.Context) (func(), error) {
	l.acquired++
	return func() { l.released++ }, nil
}

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newTestService(backend Backend, lock invoicedomain.NumberLock) *Service {
	return NewService(ServiceParam{
		Backend: backend,
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(fixedNow),
		Lock:    lock,
	}).(*Service)
}

func wireInvoice(id, number, name, city string) wire.Invoice {
	return wire.Invoice{
		ID:            id,
		InvoiceNumber: number,
		Date:          "2026-10-01",
		Terms:         "COD",
		Customer:      wire.Customer{Name: name, Address: "1 Main St", City: city},
		Items: []wire.Item{{
			ID:           id + "-1",
			Description:  "Ring",
			Pieces:       1,
			Weight:       wire.A(decimal.RequireFromString("0.5")),
			PricePerUnit: wire.A(decimal.NewFromInt(100)),
			Total:        wire.A(decimal.NewFromInt(100)),
		}},
		Charges: wire.Charges{
			Subtotal:    wire.A(decimal.NewFromInt(100)),
			TotalAmount: wire.A(decimal.NewFromInt(100)),
		},
	}
}

func sampleForm() invoicedomain.FormData {
	return invoicedomain.FormData{
		Date:            "2026-10-16",
		Terms:           "COD",
		CustomerName:    "Jane Smith",
		CustomerAddress: "12 Gem Row",
		CustomerCity:    "Houston",
		Items: []invoicedomain.ItemInput{{
			Description:  "Emerald",
			Pieces:       3,
			PricePerUnit: decimal.RequireFromString("10.00"),
		}},
		ShippingCharges: decimal.RequireFromString("5.00"),
		OtherCharges:    decimal.RequireFromString("2.50"),
	}
}

func notFound() error {
	return &apiclient.HTTPError{StatusCode: http.StatusNotFound, Method: http.MethodGet}
}

func TestListAllMapsEveryInvoice(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{
		wireInvoice("a", "INV-2636", "Jane", "Houston"),
		wireInvoice("b", "INV-2640", "Raj", "Dallas"),
	}, nil)

	items, err := newTestService(backend, nil).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2636), items[0].InvoiceNo)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, fixedNow, items[0].CreatedAt)
}

func TestListAllTransportFailure(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListInvoices", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := newTestService(backend, nil).ListAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, invoicedomain.ErrTransport)
}

func TestListAllSkipsRecordWithoutNumber(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{
		wireInvoice("a", "INV-abc", "Jane", "Houston"),
		wireInvoice("b", "INV-2640", "Raj", "Dallas"),
	}, nil)

	items, err := newTestService(backend, nil).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	backend := new(mockBackend)
	backend.On("GetInvoice", mock.Anything, "missing").Return(wire.Invoice{}, notFound())

	inv, err := newTestService(backend, nil).GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, inv)
}

func TestGetByIDServerErrorIsTransportError(t *testing.T) {
	backend := new(mockBackend)
	backend.On("GetInvoice", mock.Anything, "x").
		Return(wire.Invoice{}, &apiclient.HTTPError{StatusCode: http.StatusInternalServerError})

	inv, err := newTestService(backend, nil).GetByID(context.Background(), "x")
	assert.Nil(t, inv)
	var terr *invoicedomain.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
}

func TestNextInvoiceNumber(t *testing.T) {
	t.Run("empty list yields seed", func(t *testing.T) {
		backend := new(mockBackend)
		backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{}, nil)
		assert.Equal(t, int64(2636), newTestService(backend, nil).NextInvoiceNumber(context.Background()))
	})

	t.Run("max plus one regardless of order", func(t *testing.T) {
		backend := new(mockBackend)
		backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{
			wireInvoice("a", "INV-2640", "A", "X"),
			wireInvoice("b", "INV-2700", "B", "Y"),
			wireInvoice("c", "INV-2650", "C", "Z"),
		}, nil)
		assert.Equal(t, int64(2701), newTestService(backend, nil).NextInvoiceNumber(context.Background()))
	})

	t.Run("legacy records still count", func(t *testing.T) {
		undated := wireInvoice("b", "INV-2999", "Smith", "Y")
		undated.Date = ""
		backend := new(mockBackend)
		backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{
			wireInvoice("a", "INV-3000", "Smith", "X"),
			undated,
			wireInvoice("c", "not-a-number", "C", "Z"),
		}, nil)
		svc := newTestService(backend, nil)

		assert.Equal(t, int64(3001), svc.NextInvoiceNumber(context.Background()))

		found, err := svc.Search(context.Background(), "smith")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.True(t, found[1].Date.IsZero())
	})

	t.Run("failure falls back to seed", func(t *testing.T) {
		backend := new(mockBackend)
		backend.On("ListInvoices", mock.Anything).Return(nil, errors.New("timeout"))
		assert.Equal(t, int64(2636), newTestService(backend, nil).NextInvoiceNumber(context.Background()))
	})
}

func TestCreateAssignsNumberAndComputesTotals(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{
		wireInvoice("a", "INV-2640", "A", "X"),
	}, nil)

	var sent wire.Invoice
	backend.On("CreateInvoice", mock.Anything, mock.AnythingOfType("wire.Invoice")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(wire.Invoice) }).
		Return(func() wire.Invoice {
			out := wireInvoice("new", "INV-2641", "Jane Smith", "Houston")
			out.Charges = wire.Charges{
				Subtotal:    wire.A(decimal.RequireFromString("30")),
				Shipping:    wire.A(decimal.RequireFromString("5")),
				Other:       wire.A(decimal.RequireFromString("2.5")),
				TotalAmount: wire.A(decimal.RequireFromString("37.5")),
			}
			return out
		}(), nil)

	lock := &countingLock{}
	inv, err := newTestService(backend, lock).Create(context.Background(), sampleForm())
	require.NoError(t, err)

	assert.Equal(t, "", sent.ID)
	assert.Equal(t, "INV-2641", sent.InvoiceNumber)
	assert.True(t, sent.Charges.Subtotal.Equal(decimal.NewFromInt(30)))
	assert.True(t, sent.Charges.TotalAmount.Equal(decimal.RequireFromString("37.50")))
	assert.True(t, sent.Items[0].Total.Equal(decimal.NewFromInt(30)))

	assert.Equal(t, "new", inv.ID)
	assert.Equal(t, int64(2641), inv.InvoiceNo)
	assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("37.5")))
	assert.Equal(t, 1, lock.acquired)
	assert.Equal(t, 1, lock.released)
}

func TestCreateRejectionBecomesValidationError(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{}, nil)
	backend.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(wire.Invoice{}, &apiclient.HTTPError{StatusCode: http.StatusBadRequest, Message: "customer name is required"})

	_, err := newTestService(backend, nil).Create(context.Background(), sampleForm())
	var verr *invoicedomain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "customer name is required", verr.Message)
}

func TestCreateRejectionWithoutMessageUsesFallback(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{}, nil)
	backend.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(wire.Invoice{}, &apiclient.HTTPError{StatusCode: http.StatusConflict})

	_, err := newTestService(backend, nil).Create(context.Background(), sampleForm())
	assert.ErrorIs(t, err, invoicedomain.ErrValidation)
	assert.EqualError(t, err, "Failed to create invoice")
}

func TestCreateServerFailureIsTransportError(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{}, nil)
	backend.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(wire.Invoice{}, &apiclient.HTTPError{StatusCode: http.StatusBadGateway})

	_, err := newTestService(backend, nil).Create(context.Background(), sampleForm())
	assert.ErrorIs(t, err, invoicedomain.ErrTransport)
}

func TestUpdateMissingIssuesNoWrite(t *testing.T) {
	backend := new(mockBackend)
	backend.On("GetInvoice", mock.Anything, "gone").Return(wire.Invoice{}, notFound())

	inv, err := newTestService(backend, nil).Update(context.Background(), "gone", sampleForm())
	require.NoError(t, err)
	assert.Nil(t, inv)
	backend.AssertNotCalled(t, "ReplaceInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateKeepsExistingNumber(t *testing.T) {
	backend := new(mockBackend)
	backend.On("GetInvoice", mock.Anything, "a").Return(wireInvoice("a", "INV-2650", "Old", "Austin"), nil)

	var sent wire.Invoice
	backend.On("ReplaceInvoice", mock.Anything, "a", mock.AnythingOfType("wire.Invoice")).
		Run(func(args mock.Arguments) { sent = args.Get(2).(wire.Invoice) }).
		Return(wireInvoice("a", "INV-2650", "Jane Smith", "Houston"), nil)

	inv, err := newTestService(backend, nil).Update(context.Background(), "a", sampleForm())
	require.NoError(t, err)
	require.NotNil(t, inv)

	assert.Equal(t, "INV-2650", sent.InvoiceNumber)
	assert.Equal(t, "Jane Smith", sent.Customer.Name)
	assert.True(t, sent.Charges.TotalAmount.Equal(decimal.RequireFromString("37.5")))
	assert.Equal(t, int64(2650), inv.InvoiceNo)
	backend.AssertNotCalled(t, "ListInvoices", mock.Anything)
}

func TestUpdateNotFoundOnReplace(t *testing.T) {
	backend := new(mockBackend)
	backend.On("GetInvoice", mock.Anything, "a").Return(wireInvoice("a", "INV-2650", "Old", "Austin"), nil)
	backend.On("ReplaceInvoice", mock.Anything, "a", mock.Anything).Return(wire.Invoice{}, notFound())

	inv, err := newTestService(backend, nil).Update(context.Background(), "a", sampleForm())
	require.NoError(t, err)
	assert.Nil(t, inv)
}

func TestUpdateRejectionUsesFallback(t *testing.T) {
	backend := new(mockBackend)
	backend.On("GetInvoice", mock.Anything, "a").Return(wireInvoice("a", "INV-2650", "Old", "Austin"), nil)
	backend.On("ReplaceInvoice", mock.Anything, "a", mock.Anything).
		Return(wire.Invoice{}, &apiclient.HTTPError{StatusCode: http.StatusUnprocessableEntity})

	_, err := newTestService(backend, nil).Update(context.Background(), "a", sampleForm())
	assert.EqualError(t, err, "Failed to update invoice")
}

func TestDelete(t *testing.T) {
	backend := new(mockBackend)
	backend.On("DeleteInvoice", mock.Anything, "a").Return(nil)
	backend.On("DeleteInvoice", mock.Anything, "gone").Return(notFound())
	backend.On("DeleteInvoice", mock.Anything, "boom").Return(errors.New("reset by peer"))

	svc := newTestService(backend, nil)

	ok, err := svc.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Delete(context.Background(), "boom")
	assert.False(t, ok)
	assert.ErrorIs(t, err, invoicedomain.ErrTransport)
}

func TestSearch(t *testing.T) {
	backend := new(mockBackend)
	backend.On("ListInvoices", mock.Anything).Return([]wire.Invoice{
		wireInvoice("a", "INV-2636", "John Smith", "Austin"),
		wireInvoice("b", "INV-2637", "Ana Ruiz", "Smithville"),
		wireInvoice("c", "INV-2638", "Lee", "Dallas"),
	}, nil)

	svc := newTestService(backend, nil)

	got, err := svc.Search(context.Background(), "SMITH")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	got, err = svc.Search(context.Background(), "2638")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)

	got, err = svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMatchesDoesNotSearchAddress(t *testing.T) {
	inv := invoicedomain.Invoice{CustomerName: "Lee", CustomerCity: "Dallas", CustomerAddress: "9 Smith Ave", InvoiceNo: 2700}
	assert.False(t, Matches(inv, "smith"))
	assert.True(t, Matches(inv, "270"))
}
