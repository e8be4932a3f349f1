package catalog

import (
	"context"
	"fmt"
	"strings"

	"ms-railway/internal/apperr"
	"ms-railway/internal/catalog/cache"
	"ms-railway/internal/logger"
	"ms-railway/internal/metrics"
	"ms-railway/internal/models"
	"ms-railway/internal/utils"
)

// MaxStationResults caps both the search and the hot-station list.
const MaxStationResults = 10

type CatalogStore interface {
	SearchStations(ctx context.Context, query string, limit int) ([]models.Station, error)
	HotStations(ctx context.Context, limit int) ([]models.Station, error)
	SearchTrains(ctx context.Context, from, to string) ([]models.Train, error)
}

type StationCache interface {
	Get(ctx context.Context, key string) ([]models.Station, bool, error)
	Set(ctx context.Context, key string, stations []models.Station) error
}

type Service struct {
	DB     CatalogStore
	Cache  StationCache
	Logger *logger.Logger
}

// NewService accepts a nil cache; lookups then always hit the store.
func NewService(db CatalogStore, stationCache StationCache, log *logger.Logger) *Service {
	return &Service{DB: db, Cache: stationCache, Logger: log}
}

// SearchStations returns an empty list for an empty query.
func (s *Service) SearchStations(ctx context.Context, query string) ([]models.Station, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Station{}, nil
	}
	return s.cached(ctx, cache.QueryKey(query), func() ([]models.Station, error) {
		return s.DB.SearchStations(ctx, query, MaxStationResults)
	})
}

func (s *Service) HotStations(ctx context.Context) ([]models.Station, error) {
	return s.cached(ctx, cache.HotKey(), func() ([]models.Station, error) {
		return s.DB.HotStations(ctx, MaxStationResults)
	})
}

// SearchTrains validates the date but does not filter on it; schedules run daily.
func (s *Service) SearchTrains(ctx context.Context, from, to, date string) ([]models.Train, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, apperr.Validation("from and to are required")
	}
	if _, err := utils.ParseTravelDate(date); err != nil {
		return nil, err
	}

	trains, err := s.DB.SearchTrains(ctx, from, to)
	if err != nil {
		return nil, apperr.FromStore(err, "train")
	}
	if trains == nil {
		trains = []models.Train{}
	}
	return trains, nil
}

func (s *Service) cached(ctx context.Context, key string, load func() ([]models.Station, error)) ([]models.Station, error) {
	if s.Cache != nil {
		stations, ok, err := s.Cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.StationCache.WithLabelValues("error").Inc()
			s.Logger.Warn("CACHE", fmt.Sprintf("station cache read failed, falling back to store: %v", err))
		case ok:
			metrics.StationCache.WithLabelValues("hit").Inc()
			return stations, nil
		default:
			metrics.StationCache.WithLabelValues("miss").Inc()
		}
	}

	stations, err := load()
	if err != nil {
		return nil, apperr.FromStore(err, "station")
	}
	if stations == nil {
		stations = []models.Station{}
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, stations); err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("station cache write failed: %v", err))
		}
	}
	return stations, nil
}
