package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/skip2/go-qrcode"

	"ms-railway/internal/models"
)

const DefaultSize = 256

var ErrInvalidPayload = errors.New("invalid boarding pass payload")

type Seat struct {
	Passenger string `json:"passenger"`
	SeatClass string `json:"seat_class"`
	SeatNo    string `json:"seat_no"`
}

// BoardingPass is the content sealed into the QR code.
type BoardingPass struct {
	OrderID     int64     `json:"order_id"`
	TrainNumber string    `json:"train_number"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	TravelDate  string    `json:"travel_date"`
	StartTime   string    `json:"start_time"`
	Seats       []Seat    `json:"seats"`
	IssuedAt    time.Time `json:"issued_at"`
}

func FromOrder(o *models.Order) BoardingPass {
	pass := BoardingPass{
		OrderID:     o.ID,
		TrainNumber: o.TrainNumber,
		From:        o.FromStation,
		To:          o.ToStation,
		TravelDate:  o.TravelDate,
		StartTime:   o.StartTime,
		IssuedAt:    time.Now().UTC(),
	}
	for _, it := range o.Items {
		pass.Seats = append(pass.Seats, Seat{Passenger: it.PassengerName, SeatClass: it.SeatClass, SeatNo: it.SeatNo})
	}
	return pass
}

type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:]}
}

// Seal encrypts the pass into a URL-safe string.
func (g *Generator) Seal(pass BoardingPass) (string, error) {
	data, err := json.Marshal(pass)
	if err != nil {
		return "", err
	}
	gcm, err := g.aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Tampered or foreign payloads return ErrInvalidPayload.
func (g *Generator) Open(payload string) (*BoardingPass, error) {
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	gcm, err := g.aead()
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, ErrInvalidPayload
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	data, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	var pass BoardingPass
	if err := json.Unmarshal(data, &pass); err != nil {
		return nil, ErrInvalidPayload
	}
	return &pass, nil
}

// PNG renders the sealed pass as a QR image.
func (g *Generator) PNG(pass BoardingPass, size int) ([]byte, error) {
	payload, err := g.Seal(pass)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}

func (g *Generator) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(g.secret)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
