package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-railway/internal/apperr"
	"ms-railway/internal/logger"
)

func TestWriteError_MapsStatusAndHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, logger.Nop(), apperr.Internal("internal error", errors.New("disk I/O error at /data/railway.db")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "/data/railway.db")

	rec = httptest.NewRecorder()
	WriteError(rec, logger.Nop(), apperr.BusinessRule("Only paid orders can be refunded"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Only paid orders can be refunded", body["message"])
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusCreated, "Order created", "order", map[string]string{"status": "Unpaid"})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Unpaid", body["order"].(map[string]interface{})["status"])
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.True(t, apperr.IsValidation(DecodeJSON(r, &dst)))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad"))
	assert.True(t, apperr.IsValidation(DecodeJSON(r, &dst)))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Zhang"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "Zhang", dst.Name)
}

func TestParseTravelDate(t *testing.T) {
	d, err := ParseTravelDate("2023-10-01")
	require.NoError(t, err)
	assert.Equal(t, 2023, d.Year())

	d, err = ParseTravelDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseTravelDate("01/10/2023")
	assert.True(t, apperr.IsValidation(err))
}

func TestSeatLabel(t *testing.T) {
	assert.Equal(t, "01车01A", SeatLabel("二等座", 0))
	assert.Equal(t, "01车01F", SeatLabel("二等座", 4))
	assert.Equal(t, "01车02A", SeatLabel("二等座", 5))
	assert.Equal(t, "02车01A", SeatLabel("二等座", 90))
	assert.Equal(t, "01车01C", SeatLabel("商务座", 1))
	assert.Equal(t, "01车01D", SeatLabel("一等座", 2))
	assert.Equal(t, "01车02号下铺", SeatLabel("硬卧", 3))
	assert.Equal(t, "01车01号上铺", SeatLabel("软卧", 1))
	assert.Equal(t, "01车001号", SeatLabel("硬座", 0))
	assert.Regexp(t, regexp.MustCompile(`^\d{2}车\d{2}[ABCDF]$`), SeatLabel("二等座", 137))

	seen := make(map[string]bool)
	for i := 0; i < 400; i++ {
		label := SeatLabel("二等座", i)
		assert.False(t, seen[label], "duplicate label %s", label)
		seen[label] = true
	}
}
