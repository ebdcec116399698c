package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
	PaymentMethodWallet = "wallet"
	PaymentMethodNone   = "none"
)

type Booking struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	TurfID        string          `json:"turfId"`
	Date          string          `json:"date"`      // calendar date "YYYY-MM-DD"
	StartTime     string          `json:"startTime"` // wall clock "HH:MM", same-day only
	EndTime       string          `json:"endTime"`
	TotalPlayers  int             `json:"totalPlayers"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	PaymentMethod string          `json:"paymentMethod"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Blocks reports whether the booking occupies its slot for conflict purposes.
func (b *Booking) Blocks() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodOnline, PaymentMethodWallet, PaymentMethodNone:
		return true
	}
	return false
}
