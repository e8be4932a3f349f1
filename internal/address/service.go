package address

import (
	"context"
	"strings"

	"ms-railway/internal/apperr"
	"ms-railway/internal/logger"
	"ms-railway/internal/models"
	"ms-railway/internal/validation"
)

type AddressStore interface {
	ListAddresses(ctx context.Context, userID int64) ([]models.Address, error)
	CreateAddress(ctx context.Context, a *models.Address) error
	DeleteAddress(ctx context.Context, userID, id int64) (int64, error)
}

type CreateInput struct {
	Receiver string `json:"receiver" validate:"notblank"`
	Phone    string `json:"phone" validate:"notblank"`
	Province string `json:"province" validate:"notblank"`
	City     string `json:"city" validate:"notblank"`
	District string `json:"district" validate:"notblank"`
	Detail   string `json:"detail" validate:"notblank"`
}

type Service struct {
	DB     AddressStore
	Logger *logger.Logger
}

func NewService(db AddressStore, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

func (s *Service) List(ctx context.Context, userID int64) ([]models.Address, error) {
	addresses, err := s.DB.ListAddresses(ctx, userID)
	if err != nil {
		return nil, apperr.FromStore(err, "address")
	}
	return addresses, nil
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*models.Address, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	a := &models.Address{
		UserID:   userID,
		Receiver: strings.TrimSpace(in.Receiver),
		Phone:    strings.TrimSpace(in.Phone),
		Province: strings.TrimSpace(in.Province),
		City:     strings.TrimSpace(in.City),
		District: strings.TrimSpace(in.District),
		Detail:   strings.TrimSpace(in.Detail),
	}
	if err := s.DB.CreateAddress(ctx, a); err != nil {
		return nil, apperr.FromStore(err, "address")
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	n, err := s.DB.DeleteAddress(ctx, userID, id)
	if err != nil {
		return apperr.FromStore(err, "address")
	}
	if n == 0 {
		return apperr.NotFound("address")
	}
	return nil
}
