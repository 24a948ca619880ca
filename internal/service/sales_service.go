package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"retail-backoffice/internal/events"
	"retail-backoffice/internal/metrics"
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultSaleChannel = "Unknown"
	currencyPlaces     = 2
)

// plain invariant decimal: optional sign, digits, at most two fraction digits. No grouping, no exponent.
var priceFormat = regexp.MustCompile(`^[+-]?\d+(\.\d{1,2})?$`)

type CreateSaleRequest struct {
	CustomerID       uuid.UUID `json:"customerId"`
	SoldByEmployeeID uuid.UUID `json:"soldByEmployeeId"`
	ProductID        uuid.UUID `json:"productId"`
	SalePrice        string    `json:"salePrice"`
	SaleChannel      string    `json:"saleChannel"`
	Location         string    `json:"location" validate:"required,location"`
	SaleDate         time.Time `json:"saleDate"`
}

// SaleQuery holds raw filter values. Dates are RFC 3339 timestamps or YYYY-MM-DD;
// a date-only endDate covers the whole day.
type SaleQuery struct {
	StartDate string
	EndDate   string
	Status    string
}

type SaleService interface {
	CreateSale(ctx context.Context, req *CreateSaleRequest) (*model.Sale, error)
	GetSaleByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	GetSalesByDateRange(ctx context.Context, q SaleQuery) ([]model.Sale, error)
	FulfillSale(ctx context.Context, id, employeeID uuid.UUID) (*model.Sale, error)
}

type SaleOption func(*saleService)

// WithSleeper replaces the backoff wait between decrement attempts
func WithSleeper(sleep Sleeper) SaleOption {
	return func(s *saleService) { s.reconciler.sleep = sleep }
}

type saleService struct {
	customerRepo  repository.CustomerRepository
	employeeRepo  repository.EmployeeRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	saleRepo      repository.SaleRepository
	reconciler    *reconciler
	notifier      notifier
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	log           *zap.Logger
}

func NewSaleService(
	customers repository.CustomerRepository,
	employees repository.EmployeeRepository,
	products repository.ProductRepository,
	inventory repository.InventoryRepository,
	sales repository.SaleRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
	opts ...SaleOption,
) SaleService {
	log = log.Named("sales")
	s := &saleService{
		customerRepo:  customers,
		employeeRepo:  employees,
		productRepo:   products,
		inventoryRepo: inventory,
		saleRepo:      sales,
		reconciler: &reconciler{
			inventory:   inventory,
			sleep:       sleepContext,
			maxAttempts: maxDecrementAttempts,
			backoffUnit: decrementBackoffUnit,
			metrics:     m,
			log:         log,
		},
		notifier: notifier{publisher: publisher, metrics: m, log: log},
		metrics:  m,
		tracer:   otel.Tracer("retail-backoffice/sales"),
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *saleService) CreateSale(ctx context.Context, req *CreateSaleRequest) (*model.Sale, error) {
	ctx, span := s.tracer.Start(ctx, "sales.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("sale.customer_id", req.CustomerID.String()),
		attribute.String("sale.employee_id", req.SoldByEmployeeID.String()),
		attribute.String("sale.product_id", req.ProductID.String()),
		attribute.String("sale.location", req.Location),
	)

	sale, err := s.createSale(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return sale, err
	}
	span.SetAttributes(
		attribute.String("sale.id", sale.ID.String()),
		attribute.String("sale.status", string(sale.Status)),
	)
	span.SetStatus(codes.Ok, "sale recorded")
	return sale, nil
}

func (s *saleService) createSale(ctx context.Context, req *CreateSaleRequest) (*model.Sale, error) {
	// 1. Referents must exist, first miss wins
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return nil, lookupError(err, "customer", req.CustomerID)
	}
	if _, err := s.employeeRepo.FindByID(ctx, req.SoldByEmployeeID); err != nil {
		return nil, lookupError(err, "employee", req.SoldByEmployeeID)
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, lookupError(err, "product", req.ProductID)
	}

	// 2. Stock snapshot; no row is a valid answer
	if err := validate(req); err != nil {
		return nil, err
	}
	// validate has already checked the location tag
	location, _ := model.ParseLocation(req.Location)
	inventory, err := s.inventoryRepo.FindByProductAndLocation(ctx, product.ID, location)
	if err != nil {
		return nil, err
	}

	// 3. Price
	price, err := ParseMoney("salePrice", req.SalePrice)
	if err != nil {
		return nil, err
	}

	// 4. Commission
	commission := Commission(price, product.CommissionPercentage)

	// 5. Status
	status := model.SalePending
	if inventory != nil && inventory.Quantity > 0 {
		status = model.SaleFulfilled
	}

	// 6. Persist
	saleDate := req.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now().UTC()
	}
	channel := strings.TrimSpace(req.SaleChannel)
	if channel == "" {
		channel = DefaultSaleChannel
	}
	sale := &model.Sale{
		CustomerID:       req.CustomerID,
		SoldByEmployeeID: req.SoldByEmployeeID,
		ProductID:        product.ID,
		Status:           status,
		SalePrice:        price,
		CommissionAmount: commission,
		SaleChannel:      channel,
		Location:         location,
		SaleDate:         saleDate,
	}
	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}

	log := s.log.With(
		zap.String("sale_id", sale.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("location", string(location)),
	)
	log.Info("Sale recorded",
		zap.String("status", string(status)),
		zap.String("sale_price", price.StringFixed(currencyPlaces)),
		zap.String("commission", commission.StringFixed(currencyPlaces)),
	)

	// Consumers see the sale as persisted before anything that follows from it
	outbox := []events.Event{events.New(
		events.TypeSaleUpdate, events.ActionSaleCreated, sale.ID.String(),
		fmt.Sprintf("Sale of '%s' recorded as %s", product.Name, sale.Status),
		sale.ToResponse(),
	)}

	// 7. Take the unit out of stock
	var reconcileErr error
	if status == model.SaleFulfilled {
		var followUps []events.Event
		followUps, reconcileErr = s.reconcile(ctx, sale, inventory, log)
		outbox = append(outbox, followUps...)
	}

	// 8. Done
	s.metrics.SalesCreated.WithLabelValues(string(sale.Status)).Inc()
	s.notifier.notify(ctx, outbox...)

	if reconcileErr != nil {
		return sale, reconcileErr
	}
	return sale, nil
}

// reconcile runs the decrement and demotes the sale when no unit was taken.
// It returns the events describing what happened, for the caller to publish.
func (s *saleService) reconcile(ctx context.Context, sale *model.Sale, snapshot *model.Inventory, log *zap.Logger) ([]events.Event, error) {
	ctx, span := s.tracer.Start(ctx, "sales.reconcile_inventory")
	defer span.End()

	result := s.reconciler.run(ctx, snapshot)
	span.SetAttributes(
		attribute.String("reconcile.outcome", result.state.String()),
		attribute.Int("reconcile.attempts", result.attempts),
	)
	if result.state != stateFailed {
		s.metrics.Reconciliations.WithLabelValues(result.state.String()).Inc()
	}

	if result.state == stateSuccess {
		log.Info("Inventory decremented",
			zap.Int("attempts", result.attempts),
			zap.Int("remaining", result.inventory.Quantity),
		)
		return []events.Event{events.New(
			events.TypeStockUpdate, events.ActionInventoryUpdated, sale.ProductID.String(),
			fmt.Sprintf("Stock at %s reduced by sale %s", sale.Location, sale.ID),
			result.inventory.ToResponse(),
		)}, nil
	}

	// The sale row stays, but it must not claim a unit it never got.
	// The write outlives a cancelled request.
	if err := s.saleRepo.UpdateStatus(context.WithoutCancel(ctx), sale.ID, model.SalePending); err != nil {
		log.Error("Failed to demote sale to pending", zap.Error(err))
		return nil, errors.Join(result.err, err)
	}
	sale.Status = model.SalePending
	demoted := []events.Event{events.New(
		events.TypeSaleUpdate, events.ActionSaleDemoted, sale.ID.String(),
		fmt.Sprintf("Sale %s moved to pending: no stock could be reserved", sale.ID),
		sale.ToResponse(),
	)}

	switch result.state {
	case stateAborted:
		log.Info("Sale demoted, stock exhausted during reconciliation", zap.Int("attempts", result.attempts))
		return demoted, nil
	case stateExhausted:
		log.Warn("Sale demoted, inventory kept changing", zap.Int("attempts", result.attempts))
		err := &ConcurrencyExhaustedError{ProductID: sale.ProductID, Location: sale.Location, SaleID: sale.ID}
		span.SetStatus(codes.Error, err.Error())
		return demoted, err
	default:
		log.Error("Inventory reconciliation failed", zap.Int("attempts", result.attempts), zap.Error(result.err))
		span.RecordError(result.err)
		return demoted, fmt.Errorf("reconcile inventory for sale %s: %w", sale.ID, result.err)
	}
}

func (s *saleService) GetSaleByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "sale", id)
	}
	return sale, nil
}

func (s *saleService) GetSalesByDateRange(ctx context.Context, q SaleQuery) ([]model.Sale, error) {
	var filter repository.SaleFilter

	if q.StartDate != "" {
		from, _, err := parseDate(q.StartDate)
		if err != nil {
			return nil, invalidArgument("startDate must be RFC 3339 or YYYY-MM-DD, got %q", q.StartDate)
		}
		filter.From = &from
	}
	if q.EndDate != "" {
		to, dateOnly, err := parseDate(q.EndDate)
		if err != nil {
			return nil, invalidArgument("endDate must be RFC 3339 or YYYY-MM-DD, got %q", q.EndDate)
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, invalidArgument("startDate must not be after endDate")
	}
	if q.Status != "" {
		status, err := model.ParseSaleStatus(q.Status)
		if err != nil {
			return nil, invalidArgument("%s", err.Error())
		}
		filter.Status = &status
	}

	return s.saleRepo.FindAll(ctx, filter)
}

// FulfillSale is performed by fulfillment staff in a later step that this service does not own yet
func (s *saleService) FulfillSale(ctx context.Context, id, employeeID uuid.UUID) (*model.Sale, error) {
	return nil, &UnimplementedError{Feature: "sale fulfillment"}
}

// ParseMoney reads an invariant-culture decimal string: '.' as separator, no grouping, no exponent.
// Negative amounts and sub-cent precision are rejected, so what is stored is what was sent.
func ParseMoney(field, raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if !priceFormat.MatchString(trimmed) {
		return decimal.Zero, invalidArgument("%s must be a decimal number, got %q", field, raw)
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, invalidArgument("%s must be a decimal number, got %q", field, raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, invalidArgument("%s must not be negative", field)
	}
	return amount, nil
}

// Commission is price × percentage / 100, computed exactly and truncated to currency precision
func Commission(price, percentage decimal.Decimal) decimal.Decimal {
	return price.Mul(percentage).Shift(-2).Truncate(currencyPlaces)
}

func parseDate(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err = time.Parse(time.DateOnly, raw)
	return t, true, err
}

func lookupError(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(kind, id)
	}
	return err
}
