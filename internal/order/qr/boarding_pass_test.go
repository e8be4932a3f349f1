package qr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-railway/internal/models"
)

func paidOrder() *models.Order {
	return &models.Order{
		ID: 9, TrainNumber: "G1", FromStation: "北京南", ToStation: "上海虹桥",
		TravelDate: "2026-10-20", StartTime: "09:00", Status: models.StatusPaid,
		Items: []models.OrderItem{{PassengerName: "张三", SeatClass: "二等座", SeatNo: "05车12F"}},
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	g := NewGenerator("secret")
	payload, err := g.Seal(FromOrder(paidOrder()))
	require.NoError(t, err)

	pass, err := g.Open(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(9), pass.OrderID)
	assert.Equal(t, "G1", pass.TrainNumber)
	require.Len(t, pass.Seats, 1)
	assert.Equal(t, "05车12F", pass.Seats[0].SeatNo)
}

func TestOpen_RejectsForeignKeyAndGarbage(t *testing.T) {
	payload, err := NewGenerator("one").Seal(FromOrder(paidOrder()))
	require.NoError(t, err)

	_, err = NewGenerator("two").Open(payload)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewGenerator("one").Open("%%%")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewGenerator("one").Open("YWJj")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestPNG(t *testing.T) {
	png, err := NewGenerator("secret").PNG(FromOrder(paidOrder()), 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
