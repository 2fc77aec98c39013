package customer

import (
	"context"
	"errors"
	"strings"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

type Service struct {
	repo repository.PharmacyCustomerRepository
}

func NewService(repo repository.PharmacyCustomerRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateCustomer(ctx context.Context, req *model.CreateCustomerRequest) (*model.PharmacyCustomer, error) {
	c := &model.PharmacyCustomer{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   req.Email,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("customer with this phone already exists", err)
		}
		return nil, apperrors.Internal(err)
	}
	return c, nil
}

func (s *Service) GetByPhone(ctx context.Context, phone string) (*model.PharmacyCustomer, error) {
	c, err := s.repo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("customer", err)
		}
		return nil, apperrors.Internal(err)
	}
	return c, nil
}
