package db

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"ms-railway/internal/models"
)

type DB struct {
	Bun *bun.DB
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchStations matches a substring of the name or phonetic key, or the exact code.
func (d *DB) SearchStations(ctx context.Context, query string, limit int) ([]models.Station, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"

	stations := []models.Station{}
	err := d.Bun.NewSelect().
		Model(&stations).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("s.name LIKE ? ESCAPE '!'", pattern).
				WhereOr("s.pinyin LIKE ? ESCAPE '!'", pattern).
				WhereOr("s.code = ? COLLATE NOCASE", query)
		}).
		OrderExpr("s.id ASC").
		Limit(limit).
		Scan(ctx)
	return stations, err
}

func (d *DB) HotStations(ctx context.Context, limit int) ([]models.Station, error) {
	stations := []models.Station{}
	err := d.Bun.NewSelect().
		Model(&stations).
		Where("s.is_hot = ?", true).
		OrderExpr("s.id ASC").
		Limit(limit).
		Scan(ctx)
	return stations, err
}

// SearchTrains returns trains on an exact origin/destination pair with their seat classes.
func (d *DB) SearchTrains(ctx context.Context, from, to string) ([]models.Train, error) {
	trains := []models.Train{}
	err := d.Bun.NewSelect().
		Model(&trains).
		Relation("Seats", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("ts.price DESC")
		}).
		Where("t.from_station = ?", from).
		Where("t.to_station = ?", to).
		OrderExpr("t.start_time ASC, t.id ASC").
		Scan(ctx)
	return trains, err
}
