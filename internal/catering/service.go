package catering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ms-railway/internal/apperr"
	"ms-railway/internal/logger"
	"ms-railway/internal/metrics"
	"ms-railway/internal/models"
	"ms-railway/internal/utils"
	"ms-railway/internal/validation"
)

type CateringStore interface {
	ListBrands(ctx context.Context) ([]models.CateringBrand, error)
	GetBrand(ctx context.Context, id int64) (*models.CateringBrand, error)
	CreateBrand(ctx context.Context, b *models.CateringBrand) error
	ListItems(ctx context.Context, brandID int64, itemType string) ([]models.CateringItem, error)
	GetItems(ctx context.Context, ids []int64) ([]models.CateringItem, error)
	CreateItem(ctx context.Context, item *models.CateringItem) error
	CreateOrder(ctx context.Context, o *models.CateringOrder) error
	GetOrder(ctx context.Context, userID, id int64) (*models.CateringOrder, error)
	ListOrders(ctx context.Context, userID int64, status models.OrderStatus) ([]models.CateringOrder, error)
	TransitionOrder(ctx context.Context, userID, id int64, from, to models.OrderStatus) (bool, error)
}

type EventPublisher interface {
	PublishCateringEvent(ctx context.Context, o *models.CateringOrder, previous models.OrderStatus) error
}

type BrandInput struct {
	Name        string `json:"name" validate:"notblank"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
}

type ItemInput struct {
	Name        string  `json:"name" validate:"notblank"`
	Price       float64 `json:"price" validate:"gt=0"`
	ItemType    string  `json:"itemType" validate:"required,oneof=self brand"`
	BrandID     int64   `json:"brandId"`
	Description string  `json:"description"`
}

type OrderLineInput struct {
	ItemID   int64 `json:"itemId" validate:"required"`
	Quantity int   `json:"quantity" validate:"min=1"`
}

type OrderInput struct {
	TrainNumber string           `json:"trainNumber" validate:"notblank"`
	TravelDate  string           `json:"travelDate"`
	Items       []OrderLineInput `json:"items" validate:"min=1,dive"`
}

type Service struct {
	DB     CateringStore
	Events EventPublisher
	Logger *logger.Logger
}

func NewService(db CateringStore, events EventPublisher, log *logger.Logger) *Service {
	return &Service{DB: db, Events: events, Logger: log}
}

func (s *Service) ListBrands(ctx context.Context) ([]models.CateringBrand, error) {
	brands, err := s.DB.ListBrands(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, "brand")
	}
	return brands, nil
}

func (s *Service) CreateBrand(ctx context.Context, in BrandInput) (*models.CateringBrand, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	b := &models.CateringBrand{
		Name:        strings.TrimSpace(in.Name),
		Logo:        in.Logo,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.DB.CreateBrand(ctx, b); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.ConflictError{Msg: "Brand already exists", Err: err}
		}
		return nil, apperr.FromStore(err, "brand")
	}
	return b, nil
}

// ListItems accepts an empty itemType, or one of self and brand.
func (s *Service) ListItems(ctx context.Context, brandID int64, itemType string) ([]models.CateringItem, error) {
	if itemType != "" && itemType != models.ItemTypeSelf && itemType != models.ItemTypeBrand {
		return nil, apperr.ValidationError{Field: "itemType", Msg: "itemType must be one of [self brand]"}
	}
	items, err := s.DB.ListItems(ctx, brandID, itemType)
	if err != nil {
		return nil, apperr.FromStore(err, "catering item")
	}
	return items, nil
}

func (s *Service) CreateItem(ctx context.Context, in ItemInput) (*models.CateringItem, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	item := &models.CateringItem{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		ItemType:    in.ItemType,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if in.ItemType == models.ItemTypeBrand {
		if in.BrandID <= 0 {
			return nil, apperr.ValidationError{Field: "brandId", Msg: "brandId is required for brand items"}
		}
		if _, err := s.DB.GetBrand(ctx, in.BrandID); err != nil {
			return nil, apperr.FromStore(err, "brand")
		}
		item.BrandID = in.BrandID
	}

	if err := s.DB.CreateItem(ctx, item); err != nil {
		return nil, apperr.FromStore(err, "catering item")
	}
	return item, nil
}

// CreateOrder prices every line from the menu, never from the request.
func (s *Service) CreateOrder(ctx context.Context, userID int64, in OrderInput) (*models.CateringOrder, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if _, err := utils.ParseTravelDate(in.TravelDate); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(in.Items))
	for _, line := range in.Items {
		ids = append(ids, line.ItemID)
	}
	menu, err := s.DB.GetItems(ctx, ids)
	if err != nil {
		return nil, apperr.FromStore(err, "catering item")
	}
	byID := make(map[int64]models.CateringItem, len(menu))
	for _, it := range menu {
		byID[it.ID] = it
	}

	now := time.Now().UTC()
	o := &models.CateringOrder{
		UserID:      userID,
		TrainNumber: strings.TrimSpace(in.TrainNumber),
		TravelDate:  in.TravelDate,
		Status:      models.StatusUnpaid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var total float64
	for _, line := range in.Items {
		it, ok := byID[line.ItemID]
		if !ok {
			return nil, apperr.NotFoundError{Resource: fmt.Sprintf("catering item %d", line.ItemID)}
		}
		o.Items = append(o.Items, models.CateringOrderItem{
			ItemID:    it.ID,
			ItemName:  it.Name,
			Quantity:  line.Quantity,
			UnitPrice: it.Price,
		})
		total += it.Price * float64(line.Quantity)
	}
	o.TotalPrice = math.Round(total*100) / 100

	if err := s.DB.CreateOrder(ctx, o); err != nil {
		return nil, apperr.FromStore(err, "catering order")
	}

	metrics.OrderTransitions.WithLabelValues("catering", "", string(models.StatusUnpaid)).Inc()
	s.Logger.Info("CATERING", fmt.Sprintf("order %d created user=%d lines=%d total=%.2f", o.ID, userID, len(o.Items), o.TotalPrice))
	s.publish(ctx, o, "")
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, userID int64, status string) ([]models.CateringOrder, error) {
	filter, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	orders, err := s.DB.ListOrders(ctx, userID, filter)
	if err != nil {
		return nil, apperr.FromStore(err, "catering order")
	}
	return orders, nil
}

func (s *Service) PayOrder(ctx context.Context, userID, id int64) (*models.CateringOrder, error) {
	return s.transition(ctx, userID, id, models.StatusUnpaid, models.StatusPaid, "Only unpaid orders can be paid")
}

func (s *Service) CancelOrder(ctx context.Context, userID, id int64) (*models.CateringOrder, error) {
	return s.transition(ctx, userID, id, models.StatusUnpaid, models.StatusCancelled, "Only unpaid orders can be cancelled")
}

func (s *Service) transition(ctx context.Context, userID, id int64, from, to models.OrderStatus, rejection string) (*models.CateringOrder, error) {
	changed, err := s.DB.TransitionOrder(ctx, userID, id, from, to)
	if err != nil {
		return nil, apperr.FromStore(err, "catering order")
	}
	if !changed {
		if _, err := s.DB.GetOrder(ctx, userID, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperr.NotFound("catering order")
			}
			return nil, apperr.FromStore(err, "catering order")
		}
		return nil, apperr.BusinessRule(rejection)
	}

	o, err := s.DB.GetOrder(ctx, userID, id)
	if err != nil {
		return nil, apperr.FromStore(err, "catering order")
	}
	metrics.OrderTransitions.WithLabelValues("catering", string(from), string(to)).Inc()
	s.Logger.Info("CATERING", fmt.Sprintf("order %d %s -> %s", o.ID, from, to))
	s.publish(ctx, o, from)
	return o, nil
}

func (s *Service) publish(ctx context.Context, o *models.CateringOrder, previous models.OrderStatus) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishCateringEvent(ctx, o, previous); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish catering order %d event: %v", o.ID, err))
	}
}
