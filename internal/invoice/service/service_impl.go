package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/smallbiznis/gembill/internal/clock"
	invoicedomain "github.com/smallbiznis/gembill/internal/invoice/domain"
	"github.com/smallbiznis/gembill/internal/invoice/format"
	"github.com/smallbiznis/gembill/internal/invoice/wire"
	"github.com/smallbiznis/gembill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gembill/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Backend is the persistence contract the service is written against.
type Backend interface {
	ListInvoices(ctx context.Context) ([]wire.Invoice, error)
	GetInvoice(ctx context.Context, id string) (wire.Invoice, error)
	CreateInvoice(ctx context.Context, in wire.Invoice) (wire.Invoice, error)
	ReplaceInvoice(ctx context.Context, id string, in wire.Invoice) (wire.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
}

type ServiceParam struct {
	fx.In

	Backend Backend
	Log     *zap.Logger
	Clock   clock.Clock
	Lock    invoicedomain.NumberLock `optional:"true"`
	Metrics *obsmetrics.Metrics      `optional:"true"`
}

type Service struct {
	backend Backend
	log     *zap.Logger
	clock   clock.Clock
	lock    invoicedomain.NumberLock
	metrics *obsmetrics.Metrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	c := p.Clock
	if c == nil {
		c = clock.New()
	}
	return &Service{
		backend: p.Backend,
		log:     log.Named("invoice.service"),
		clock:   c,
		lock:    p.Lock,
		metrics: p.Metrics,
	}
}

func (s *Service) ListAll(ctx context.Context) ([]invoicedomain.Invoice, error) {
	items, err := s.listAll(ctx)
	s.observe(ctx, "list", err)
	return items, err
}

func (s *Service) listAll(ctx context.Context) ([]invoicedomain.Invoice, error) {
	raw, err := s.backend.ListInvoices(ctx)
	if err != nil {
		return nil, transportError("list invoices", err)
	}

	now := s.clock.Now()
	out := make([]invoicedomain.Invoice, 0, len(raw))
	for _, w := range raw {
		inv, err := wire.ToDomain(w, now)
		if err != nil {
			logger.WithContext(ctx, s.log).Warn("skipping unreadable invoice",
				zap.String("invoice_id", w.ID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	inv, err := s.getByID(ctx, id)
	s.observe(ctx, "get", err)
	return inv, err
}

func (s *Service) getByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	raw, err := s.backend.GetInvoice(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, transportError("get invoice", err)
	}

	inv, err := wire.ToDomain(raw, s.clock.Now())
	if err != nil {
		return nil, transportError("get invoice", err)
	}
	return &inv, nil
}

// NextInvoiceNumber never fails: when the backend cannot be read it answers
// with the seed number.
func (s *Service) NextInvoiceNumber(ctx context.Context) int64 {
	items, err := s.listAll(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Warn("falling back to seed invoice number",
			zap.Int64("seed", format.SeedInvoiceNumber),
			zap.Error(err),
		)
		s.metrics.RecordNumberFallback(ctx)
		return format.SeedInvoiceNumber
	}
	if len(items) == 0 {
		return format.SeedInvoiceNumber
	}

	latest := lo.MaxBy(items, func(a, b invoicedomain.Invoice) bool {
		return a.InvoiceNo > b.InvoiceNo
	})
	return latest.InvoiceNo + 1
}

func (s *Service) Create(ctx context.Context, form invoicedomain.FormData) (invoicedomain.Invoice, error) {
	inv, err := s.create(ctx, form)
	s.observe(ctx, "create", err)
	return inv, err
}

func (s *Service) create(ctx context.Context, form invoicedomain.FormData) (invoicedomain.Invoice, error) {
	if s.lock != nil {
		release, err := s.lock.Acquire(ctx)
		if err != nil {
			return invoicedomain.Invoice{}, transportError("create invoice", err)
		}
		defer release()
	}

	no := s.NextInvoiceNumber(ctx)
	out, err := s.backend.CreateInvoice(ctx, wire.FromForm(form, no))
	if err != nil {
		return invoicedomain.Invoice{}, writeError("create invoice", "Failed to create invoice", err)
	}

	inv, err := wire.ToDomain(out, s.clock.Now())
	if err != nil {
		return invoicedomain.Invoice{}, transportError("create invoice", err)
	}

	logger.WithContext(ctx, s.log).Info("invoice created",
		zap.String("invoice_id", inv.ID),
		zap.Int64("invoice_no", inv.InvoiceNo),
	)
	return inv, nil
}

// Update replaces the content of an existing invoice, keeping its number.
// A missing invoice yields nil without any write being issued.
func (s *Service) Update(ctx context.Context, id string, form invoicedomain.FormData) (*invoicedomain.Invoice, error) {
	inv, err := s.update(ctx, id, form)
	s.observe(ctx, "update", err)
	return inv, err
}

func (s *Service) update(ctx context.Context, id string, form invoicedomain.FormData) (*invoicedomain.Invoice, error) {
	existing, err := s.getByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	out, err := s.backend.ReplaceInvoice(ctx, id, wire.FromForm(form, existing.InvoiceNo))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, writeError("update invoice", "Failed to update invoice", err)
	}

	inv, err := wire.ToDomain(out, s.clock.Now())
	if err != nil {
		return nil, transportError("update invoice", err)
	}
	return &inv, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	err := s.backend.DeleteInvoice(ctx, id)
	switch {
	case err == nil:
		s.observe(ctx, "delete", nil)
		return true, nil
	case isNotFound(err):
		s.observe(ctx, "delete", nil)
		return false, nil
	default:
		err = transportError("delete invoice", err)
		s.observe(ctx, "delete", err)
		return false, err
	}
}

// Search keeps invoices whose customer name or city contains query, ignoring
// case, or whose number contains query verbatim. Backend order is kept.
func (s *Service) Search(ctx context.Context, query string) ([]invoicedomain.Invoice, error) {
	items, err := s.listAll(ctx)
	s.observe(ctx, "search", err)
	if err != nil {
		return nil, err
	}
	return lo.Filter(items, func(inv invoicedomain.Invoice, _ int) bool {
		return Matches(inv, query)
	}), nil
}

// Matches applies the search predicate to a single invoice.
func Matches(inv invoicedomain.Invoice, query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(strings.ToLower(inv.CustomerName), lower) ||
		strings.Contains(strings.ToLower(inv.CustomerCity), lower) ||
		strings.Contains(strconv.FormatInt(inv.InvoiceNo, 10), query)
}

func (s *Service) observe(ctx context.Context, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.RecordInvoiceOperation(ctx, op, outcome)
}
