package utils

import (
	"fmt"
	"strings"
)

type carLayout struct {
	perRow []string
	rows   int
	berths bool
}

var (
	businessLayout = carLayout{perRow: []string{"A", "C", "F"}, rows: 8}
	firstLayout    = carLayout{perRow: []string{"A", "C", "D", "F"}, rows: 14}
	secondLayout   = carLayout{perRow: []string{"A", "B", "C", "D", "F"}, rows: 18}
	hardSeatLayout = carLayout{perRow: []string{"号"}, rows: 118}
	hardBerth      = carLayout{perRow: []string{"下", "中", "上"}, rows: 20, berths: true}
	softBerth      = carLayout{perRow: []string{"下", "上"}, rows: 18, berths: true}
)

func layoutFor(seatClass string) carLayout {
	switch {
	case seatClass == "商务座":
		return businessLayout
	case seatClass == "一等座":
		return firstLayout
	case seatClass == "二等座":
		return secondLayout
	case seatClass == "硬卧":
		return hardBerth
	case strings.HasSuffix(seatClass, "卧"):
		return softBerth
	default:
		return hardSeatLayout
	}
}

// SeatLabel names the ordinal-th seat (0-based) of a seat class, for example
// "01车01A" or "02车05号下铺". Distinct ordinals give distinct labels.
func SeatLabel(seatClass string, ordinal int) string {
	l := layoutFor(seatClass)
	perCar := l.rows * len(l.perRow)
	car := ordinal/perCar + 1
	within := ordinal % perCar
	row := within/len(l.perRow) + 1
	pos := l.perRow[within%len(l.perRow)]
	if l.berths {
		return fmt.Sprintf("%02d车%02d号%s铺", car, row, pos)
	}
	if pos == "号" {
		return fmt.Sprintf("%02d车%03d号", car, row)
	}
	return fmt.Sprintf("%02d车%02d%s", car, row, pos)
}
