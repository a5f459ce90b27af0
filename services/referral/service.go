package referral

import (
	"context"
	"errors"
	"strings"

	"cashback-ledger/pkg/db/option"
	"cashback-ledger/pkg/db/pagination"
	"cashback-ledger/pkg/errutil"
	"cashback-ledger/pkg/gen"
	"cashback-ledger/pkg/repository"
	"cashback-ledger/pkg/sequence"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("referral: not found")
	ErrConflict = errors.New("referral: conflict")
)

var byID = option.WithSortBy(option.QuerySortBy{SortBy: "id", OrderBy: "asc"})

type Service struct {
	ids   gen.IDGenerator
	codes sequence.Generator

	groups      repository.Repository[Group]
	ambassadors repository.Repository[Ambassador]
	qrcodes     repository.Repository[QRCode]
}

type ServiceParams struct {
	fx.In

	DB    *gorm.DB
	IDs   gen.IDGenerator
	Codes sequence.Generator
}

func NewService(p ServiceParams) *Service {
	return &Service{
		ids:   p.IDs,
		codes: p.Codes,

		groups:      repository.ProvideStore[Group](p.DB),
		ambassadors: repository.ProvideStore[Ambassador](p.DB),
		qrcodes:     repository.ProvideStore[QRCode](p.DB),
	}
}

func notFound(msg string) error {
	return errutil.NotFound(msg, ErrNotFound, errutil.WithReason("NOT_FOUND"))
}

func conflict(msg string) error {
	return errutil.Conflict(msg, ErrConflict, errutil.WithReason("CONFLICT"))
}

func (s *Service) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errutil.BadRequest("name is required", nil,
			errutil.WithDetails(errutil.Detail{Field: "name", Message: "required"}))
	}

	g := &Group{ID: s.ids.GenerateID(), Name: name}
	if err := s.groups.Create(ctx, g); err != nil {
		zap.L().Error("failed to create group", zap.Error(err))
		return nil, err
	}
	return g, nil
}

func (s *Service) ListGroups(ctx context.Context, page pagination.Pagination) ([]*Group, error) {
	return s.groups.Find(ctx, &Group{}, byID, option.ApplyPagination(page))
}

func (s *Service) CreateAmbassador(ctx context.Context, req CreateAmbassadorRequest) (*Ambassador, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return nil, errutil.BadRequest("name and email are required", nil)
	}

	if req.GroupID != nil {
		g, err := s.groups.FindByID(ctx, *req.GroupID)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, notFound("Group not found")
		}
	}

	existing, err := s.ambassadors.FindOne(ctx, &Ambassador{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("Email already registered")
	}

	a := &Ambassador{
		ID:      s.ids.GenerateID(),
		Name:    name,
		Email:   email,
		GroupID: req.GroupID,
	}
	if err := s.ambassadors.Create(ctx, a); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Email already registered")
		}
		zap.L().Error("failed to create ambassador", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (s *Service) GetAmbassador(ctx context.Context, id snowflake.ID) (*Ambassador, error) {
	a, err := s.ambassadors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("Ambassador not found")
	}
	return a, nil
}

func (s *Service) ListAmbassadors(ctx context.Context, page pagination.Pagination) ([]*Ambassador, error) {
	return s.ambassadors.Find(ctx, &Ambassador{}, byID, option.ApplyPagination(page))
}

// CreateQRCode attributes a code to an ambassador. An empty code is generated.
func (s *Service) CreateQRCode(ctx context.Context, req CreateQRCodeRequest) (*QRCode, error) {
	if _, err := s.GetAmbassador(ctx, req.AmbassadorID); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		generated, err := s.codes.NextQRCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	}

	existing, err := s.qrcodes.FindOne(ctx, &QRCode{Code: code})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("QR code already exists")
	}

	q := &QRCode{
		ID:           s.ids.GenerateID(),
		Code:         code,
		AmbassadorID: req.AmbassadorID,
	}
	if err := s.qrcodes.Create(ctx, q); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("QR code already exists")
		}
		return nil, err
	}

	zap.L().Info("qr code created", zap.String("code", code), zap.String("ambassador_id", req.AmbassadorID.String()))
	return q, nil
}

func (s *Service) GetQRCode(ctx context.Context, code string) (*QRCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, notFound("QR code not found")
	}

	q, err := s.qrcodes.FindOne(ctx, &QRCode{Code: code})
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, notFound("QR code not found")
	}
	return q, nil
}
