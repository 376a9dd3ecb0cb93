package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mmeshcher/trava-scheduler/internal/model"
)

type bookingForm struct {
	Name  string `json:"customerName" validate:"required"`
	Email string `json:"customerEmail" validate:"omitempty,email"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" validate:"required,datetime=15:04"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		form    bookingForm
		wantErr string
	}{
		{
			name: "valid",
			form: bookingForm{Name: "John", Date: "2026-11-02", Time: "10:30"},
		},
		{
			name: "valid with email",
			form: bookingForm{Name: "John", Email: "john@example.com", Date: "2026-11-02", Time: "10:30"},
		},
		{
			name:    "missing name",
			form:    bookingForm{Date: "2026-11-02", Time: "10:30"},
			wantErr: "customerName: required",
		},
		{
			name:    "bad email",
			form:    bookingForm{Name: "John", Email: "john", Date: "2026-11-02", Time: "10:30"},
			wantErr: "customerEmail: email",
		},
		{
			name:    "bad date",
			form:    bookingForm{Name: "John", Date: "02/11/2026", Time: "10:30"},
			wantErr: "date: datetime=2006-01-02",
		},
		{
			name:    "bad time",
			form:    bookingForm{Name: "John", Date: "2026-11-02", Time: "25:00"},
			wantErr: "time: datetime=15:04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.form)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Struct() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Struct() error = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Struct() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPriceAmount(t *testing.T) {
	tests := []struct {
		price string
		want  float64
	}{
		{price: "$75/service", want: 75},
		{price: "$50/hour", want: 50},
		{price: "150", want: 150},
		{price: "$1,250.50", want: 1250.5},
		{price: "1.5.2", want: 1.5},
		{price: "free", want: 0},
		{price: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			if got := PriceAmount(tt.price); got != tt.want {
				t.Fatalf("PriceAmount(%q) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		date string
		want bool
	}{
		{date: "2026-10-15", want: true},
		{date: "2026-10-16", want: false},
		{date: "2026-12-01", want: false},
		{date: "not a date", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := IsPastDate(tt.date, now); got != tt.want {
				t.Fatalf("IsPastDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestIsPastDate_ComparesInUTC(t *testing.T) {
	// 2026-10-17 08:00 в UTC+10 это ещё 2026-10-16 по UTC
	now := time.Date(2026, 10, 17, 8, 0, 0, 0, time.FixedZone("UTC+10", 10*60*60))

	if IsPastDate("2026-10-16", now) {
		t.Fatalf("IsPastDate(2026-10-16) = true, want false")
	}
	if !IsPastDate("2026-10-15", now) {
		t.Fatalf("IsPastDate(2026-10-15) = false, want true")
	}

	// 2026-10-16 20:00 в UTC-5 это уже 2026-10-17 по UTC
	west := time.Date(2026, 10, 16, 20, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	if !IsPastDate("2026-10-16", west) {
		t.Fatalf("IsPastDate(2026-10-16) in UTC-5 evening = false, want true")
	}
}

func TestEnums(t *testing.T) {
	if !IsValidStatus(model.AppointmentStatusCancelled) || IsValidStatus("archived") {
		t.Fatalf("IsValidStatus mismatch")
	}
	if !IsValidPaymentMethod(model.PaymentMethodStripe) || IsValidPaymentMethod("paypal") {
		t.Fatalf("IsValidPaymentMethod mismatch")
	}
}
