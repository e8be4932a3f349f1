package order

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
	orderdb "ms-railway/internal/order/db"
	"ms-railway/internal/order/qr"
	"ms-railway/internal/utils"
	"ms-railway/internal/validation"
)

type DBLayer interface {
	GetTrainByNumber(ctx context.Context, number string) (*models.Train, error)
	CreateOrder(ctx context.Context, trainID int64, order *models.Order) error
	GetOrder(ctx context.Context, userID, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, userID int64, status models.OrderStatus) ([]models.Order, error)
	TransitionOrder(ctx context.Context, userID, id int64, from, to models.OrderStatus, restoreSeats bool) (bool, error)
}

type BookingLock interface {
	Acquire(ctx context.Context, userID int64) (string, error)
	Release(ctx context.Context, userID int64, token string) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, o *models.Order, previous models.OrderStatus) error
}

// PassengerLookup resolves a saved passenger owned by the user.
type PassengerLookup interface {
	Get(ctx context.Context, userID, id int64) (*models.Passenger, error)
}

type PassengerInput struct {
	PassengerID   int64  `json:"passengerId"`
	Name          string `json:"name"`
	IDType        string `json:"idType"`
	IDCard        string `json:"idCard"`
	PassengerType string `json:"passengerType"`
	SeatClass     string `json:"seatClass" validate:"notblank"`
}

// CreateOrderInput carries no prices; fares come from the train's seat classes.
type CreateOrderInput struct {
	TrainNumber string           `json:"trainNumber" validate:"notblank"`
	TravelDate  string           `json:"travelDate"`
	Passengers  []PassengerInput `json:"passengers" validate:"dive"`
}

type transition struct {
	from         models.OrderStatus
	to           models.OrderStatus
	restoreSeats bool
	rejection    string
}

var (
	payTransition    = transition{models.StatusUnpaid, models.StatusPaid, false, "Only unpaid orders can be paid"}
	cancelTransition = transition{models.StatusUnpaid, models.StatusCancelled, true, "Only unpaid orders can be cancelled"}
	refundTransition = transition{models.StatusPaid, models.StatusRefunded, true, "Only paid orders can be refunded"}
)

type OrderService struct {
	DB         DBLayer
	Lock       BookingLock
	Events     EventPublisher
	Passengers PassengerLookup
	QR         *qr.Generator
	Logger     *logger.Logger
}

func NewOrderService(db DBLayer, lock BookingLock, events EventPublisher, passengers PassengerLookup, qrGen *qr.Generator, log *logger.Logger) *OrderService {
	return &OrderService{DB: db, Lock: lock, Events: events, Passengers: passengers, QR: qrGen, Logger: log}
}

// CreateOrder books one seat per passenger and returns the Unpaid order.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, in CreateOrderInput) (*models.Order, error) {
	if len(in.Passengers) == 0 {
		return nil, apperr.ValidationError{Field: "passengers", Msg: "At least one passenger is required"}
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if _, err := utils.ParseTravelDate(in.TravelDate); err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	train, err := s.DB.GetTrainByNumber(ctx, strings.TrimSpace(in.TrainNumber))
	if err != nil {
		return nil, apperr.FromStore(err, "train")
	}

	fares := make(map[string]float64, len(train.Seats))
	for _, seat := range train.Seats {
		fares[seat.SeatClass] = seat.Price
	}

	now := time.Now().UTC()
	order := &models.Order{
		UserID:      userID,
		TrainNumber: train.TrainNumber,
		FromStation: train.FromStation,
		ToStation:   train.ToStation,
		TravelDate:  in.TravelDate,
		StartTime:   train.StartTime,
		Status:      models.StatusUnpaid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var total float64
	for i, p := range in.Passengers {
		price, ok := fares[p.SeatClass]
		if !ok {
			return nil, apperr.ValidationError{
				Field: "seatClass",
				Msg:   fmt.Sprintf("Unknown seat class %s for train %s", p.SeatClass, train.TrainNumber),
			}
		}
		item, err := s.resolvePassenger(ctx, userID, i, p)
		if err != nil {
			return nil, err
		}
		item.TrainNumber = train.TrainNumber
		item.FromStation = train.FromStation
		item.ToStation = train.ToStation
		item.SeatClass = p.SeatClass
		item.Price = price
		total += price
		order.Items = append(order.Items, item)
	}
	order.TotalPrice = math.Round(total*100) / 100

	if err := s.DB.CreateOrder(ctx, train.ID, order); err != nil {
		var soldOut *orderdb.SoldOutError
		if errors.As(err, &soldOut) {
			return nil, apperr.BusinessRuleError{
				Msg: fmt.Sprintf("No remaining %s seats on %s", soldOut.SeatClass, soldOut.TrainNumber),
				Err: err,
			}
		}
		return nil, apperr.FromStore(err, "order")
	}

	for _, it := range order.Items {
		metrics.SeatInventory.WithLabelValues("reserved", it.SeatClass).Inc()
	}
	metrics.OrderTransitions.WithLabelValues("ticket", "", string(models.StatusUnpaid)).Inc()
	s.Logger.LogOrder("CREATE", order.ID, fmt.Sprintf("user=%d train=%s seats=%d total=%.2f", userID, order.TrainNumber, len(order.Items), order.TotalPrice))
	s.publish(ctx, order, "")
	return order, nil
}

func (s *OrderService) resolvePassenger(ctx context.Context, userID int64, index int, p PassengerInput) (models.OrderItem, error) {
	if p.PassengerID > 0 {
		saved, err := s.Passengers.Get(ctx, userID, p.PassengerID)
		if err != nil {
			return models.OrderItem{}, err
		}
		return models.OrderItem{
			PassengerName: saved.Name,
			IDType:        saved.IDType,
			IDCard:        saved.IDCard,
			PassengerType: saved.PassengerType,
		}, nil
	}

	name, idCard := strings.TrimSpace(p.Name), strings.TrimSpace(p.IDCard)
	if name == "" || idCard == "" {
		return models.OrderItem{}, apperr.ValidationError{
			Field: "passengers",
			Msg:   fmt.Sprintf("passengers[%d] needs passengerId or name and idCard", index),
		}
	}
	item := models.OrderItem{
		PassengerName: name,
		IDType:        p.IDType,
		IDCard:        idCard,
		PassengerType: p.PassengerType,
	}
	if item.IDType == "" {
		item.IDType = "身份证"
	}
	if item.PassengerType == "" {
		item.PassengerType = "成人"
	}
	return item, nil
}

// acquire takes the per-user booking lock. Redis failures are logged and
// booking continues, since the seat decrement is guarded in the database.
func (s *OrderService) acquire(ctx context.Context, userID int64) (func(), error) {
	noop := func() {}
	if s.Lock == nil {
		return noop, nil
	}
	token, err := s.Lock.Acquire(ctx, userID)
	if err != nil {
		s.Logger.Warn("REDIS", fmt.Sprintf("booking lock unavailable for user %d: %v", userID, err))
		return noop, nil
	}
	if token == "" {
		return nil, apperr.Conflict("Another booking is in progress")
	}
	return func() {
		if err := s.Lock.Release(context.WithoutCancel(ctx), userID, token); err != nil {
			s.Logger.Warn("REDIS", fmt.Sprintf("release booking lock for user %d: %v", userID, err))
		}
	}, nil
}

// ListOrders filters by status when given. Status matching ignores case.
func (s *OrderService) ListOrders(ctx context.Context, userID int64, status string) ([]models.Order, error) {
	filter, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	orders, err := s.DB.ListOrders(ctx, userID, filter)
	if err != nil {
		return nil, apperr.FromStore(err, "order")
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, id int64) (*models.Order, error) {
	o, err := s.DB.GetOrder(ctx, userID, id)
	if err != nil {
		return nil, apperr.FromStore(err, "order")
	}
	return o, nil
}

func (s *OrderService) PayOrder(ctx context.Context, userID, id int64) (*models.Order, error) {
	return s.transition(ctx, userID, id, payTransition)
}

func (s *OrderService) CancelOrder(ctx context.Context, userID, id int64) (*models.Order, error) {
	return s.transition(ctx, userID, id, cancelTransition)
}

func (s *OrderService) RefundOrder(ctx context.Context, userID, id int64) (*models.Order, error) {
	return s.transition(ctx, userID, id, refundTransition)
}

func (s *OrderService) transition(ctx context.Context, userID, id int64, t transition) (*models.Order, error) {
	changed, err := s.DB.TransitionOrder(ctx, userID, id, t.from, t.to, t.restoreSeats)
	if err != nil {
		return nil, apperr.FromStore(err, "order")
	}
	if !changed {
		if _, err := s.DB.GetOrder(ctx, userID, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperr.NotFound("order")
			}
			return nil, apperr.FromStore(err, "order")
		}
		return nil, apperr.BusinessRule(t.rejection)
	}

	order, err := s.DB.GetOrder(ctx, userID, id)
	if err != nil {
		return nil, apperr.FromStore(err, "order")
	}

	if t.restoreSeats {
		for _, it := range order.Items {
			metrics.SeatInventory.WithLabelValues("released", it.SeatClass).Inc()
		}
	}
	metrics.OrderTransitions.WithLabelValues("ticket", string(t.from), string(t.to)).Inc()
	s.Logger.LogOrder(strings.ToUpper(string(t.to)), order.ID, fmt.Sprintf("user=%d %s -> %s", userID, t.from, t.to))
	s.publish(ctx, order, t.from)
	return order, nil
}

// BoardingPass renders the QR code for a paid order.
func (s *OrderService) BoardingPass(ctx context.Context, userID, id int64) ([]byte, error) {
	order, err := s.GetOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPaid {
		return nil, apperr.BusinessRule("Boarding passes are only issued for paid orders")
	}
	png, err := s.QR.PNG(qr.FromOrder(order), qr.DefaultSize)
	if err != nil {
		return nil, apperr.Internal("render boarding pass", err)
	}
	return png, nil
}

// publish never fails the request; the order is already committed.
func (s *OrderService) publish(ctx context.Context, o *models.Order, previous models.OrderStatus) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishOrderEvent(ctx, o, previous); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish order %d event: %v", o.ID, err))
	}
}
