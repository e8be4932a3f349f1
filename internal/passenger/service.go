package passenger

import (
	"context"
	"fmt"
	"strings"

	"ms-railway/internal/apperr"
	"ms-railway/internal/logger"
	"ms-railway/internal/models"
	"ms-railway/internal/validation"
)

type PassengerStore interface {
	ListPassengers(ctx context.Context, userID int64) ([]models.Passenger, error)
	GetPassenger(ctx context.Context, userID, id int64) (*models.Passenger, error)
	CreatePassenger(ctx context.Context, p *models.Passenger) error
	DeletePassenger(ctx context.Context, userID, id int64) (int64, error)
}

type CreateInput struct {
	Name          string `json:"name" validate:"notblank"`
	IDType        string `json:"idType"`
	IDCard        string `json:"idCard" validate:"notblank"`
	Phone         string `json:"phone" validate:"notblank"`
	PassengerType string `json:"passengerType"`
}

type Service struct {
	DB     PassengerStore
	Logger *logger.Logger
}

func NewService(db PassengerStore, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

func (s *Service) List(ctx context.Context, userID int64) ([]models.Passenger, error) {
	passengers, err := s.DB.ListPassengers(ctx, userID)
	if err != nil {
		return nil, apperr.FromStore(err, "passenger")
	}
	return passengers, nil
}

// Get returns NotFoundError for rows owned by someone else.
func (s *Service) Get(ctx context.Context, userID, id int64) (*models.Passenger, error) {
	p, err := s.DB.GetPassenger(ctx, userID, id)
	if err != nil {
		return nil, apperr.FromStore(err, "passenger")
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*models.Passenger, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	p := &models.Passenger{
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		IDType:        in.IDType,
		IDCard:        strings.TrimSpace(in.IDCard),
		Phone:         strings.TrimSpace(in.Phone),
		PassengerType: in.PassengerType,
	}
	if p.IDType == "" {
		p.IDType = "身份证"
	}
	if p.PassengerType == "" {
		p.PassengerType = "成人"
	}

	if err := s.DB.CreatePassenger(ctx, p); err != nil {
		return nil, apperr.FromStore(err, "passenger")
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	n, err := s.DB.DeletePassenger(ctx, userID, id)
	if err != nil {
		return apperr.FromStore(err, "passenger")
	}
	if n == 0 {
		return apperr.NotFound("passenger")
	}
	s.Logger.Debug("PASSENGER", fmt.Sprintf("user %d deleted passenger %d", userID, id))
	return nil
}
