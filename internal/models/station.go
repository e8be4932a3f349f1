package models

import "github.com/uptrace/bun"

type Station struct {
	bun.BaseModel `bun:"table:stations,alias:s"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	Name   string `bun:"name,notnull" json:"name"`
	Code   string `bun:"code,notnull" json:"code"`
	Pinyin string `bun:"pinyin,notnull" json:"pinyin"`
	IsHot  bool   `bun:"is_hot,notnull" json:"is_hot"`
}
