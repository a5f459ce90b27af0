package customer

import (
	"context"
	"errors"
	"strings"

	"cashback-ledger/pkg/db/option"
	"cashback-ledger/pkg/db/pagination"
	"cashback-ledger/pkg/errutil"
	"cashback-ledger/pkg/gen"
	"cashback-ledger/pkg/repository"
	"cashback-ledger/pkg/task"
	"cashback-ledger/pkg/taskname"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("customer not found")
	ErrEmailTaken = errors.New("email already registered")
)

// BalanceProvisioner creates the zero balance of a new customer inside the
// caller's transaction.
type BalanceProvisioner interface {
	Provision(ctx context.Context, tx *gorm.DB, customerID snowflake.ID) error
}

type Service struct {
	db          *gorm.DB
	ids         gen.IDGenerator
	provisioner BalanceProvisioner
	enqueuer    task.Enqueuer
	validate    *validator.Validate

	customers repository.Repository[Customer]
}

type ServiceParams struct {
	fx.In

	DB          *gorm.DB
	IDs         gen.IDGenerator
	Provisioner BalanceProvisioner
	Enqueuer    task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	enq := p.Enqueuer
	if enq == nil {
		enq = task.Noop{}
	}
	return &Service{
		db:          p.DB,
		ids:         p.IDs,
		provisioner: p.Provisioner,
		enqueuer:    enq,
		validate:    validator.New(),

		customers: repository.ProvideStore[Customer](p.DB),
	}
}

func logFields(ctx context.Context) []zap.Field {
	sc := trace.SpanFromContext(ctx).SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Customer, error) {
	log := zap.L().With(logFields(ctx)...)

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" {
		return nil, errutil.BadRequest("name is required", nil, errutil.WithDetails(errutil.Detail{Field: "name", Message: "required"}))
	}
	if err := s.validate.Var(req.Email, "required,email"); err != nil {
		return nil, errutil.BadRequest("invalid email", err, errutil.WithDetails(errutil.Detail{Field: "email", Message: "must be a valid email address"}))
	}

	existing, err := s.customers.FindOne(ctx, &Customer{Email: req.Email})
	if err != nil {
		log.Error("failed to query customer by email", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, errutil.Conflict("Email already registered", ErrEmailTaken, errutil.WithReason("CONFLICT"))
	}

	c := &Customer{
		ID:    s.ids.GenerateID(),
		Name:  req.Name,
		Email: req.Email,
	}

	if err := repository.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.customers.WithTrx(tx).Create(ctx, c); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errutil.Conflict("Email already registered", ErrEmailTaken, errutil.WithReason("CONFLICT"))
			}
			return err
		}
		return s.provisioner.Provision(ctx, tx, c.ID)
	}); err != nil {
		log.Error("failed to create customer", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	log.Info("customer registered", zap.String("customer_id", c.ID.String()))
	s.publishRegistered(ctx, c)

	return c, nil
}

func (s *Service) publishRegistered(ctx context.Context, c *Customer) {
	payload := []byte(`{"customer_id":"` + c.ID.String() + `"}`)
	if _, err := s.enqueuer.Enqueue(ctx, asynq.NewTask(taskname.CustomerRegistered, payload), asynq.Queue(taskname.QueueDefault)); err != nil {
		zap.L().Warn("failed to publish customer event", zap.String("customer_id", c.ID.String()), zap.Error(err))
	}
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		zap.L().With(logFields(ctx)...).Error("failed to get customer", zap.Error(err))
		return nil, err
	}
	if c == nil {
		return nil, errutil.NotFound("Customer not found", ErrNotFound, errutil.WithReason("NOT_FOUND"))
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, page pagination.Pagination) ([]*Customer, error) {
	return s.customers.Find(ctx, &Customer{},
		option.WithSortBy(option.QuerySortBy{SortBy: "id", OrderBy: "asc"}),
		option.ApplyPagination(page),
	)
}
