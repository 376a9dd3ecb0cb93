// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mmeshcher/trava-scheduler/internal/model"
)

// DateLayout и TimeLayout описывают форматы полей даты и времени записи.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrInvalid возвращается, если входные данные не прошли проверку.
var ErrInvalid = errors.New("invalid input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct проверяет структуру по тегам validate и возвращает ошибку, оборачивающую ErrInvalid.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// IsValidStatus проверяет, что статус записи входит в допустимый набор.
func IsValidStatus(s model.AppointmentStatus) bool {
	switch s {
	case model.AppointmentStatusScheduled, model.AppointmentStatusCompleted, model.AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentMethod проверяет, что способ оплаты известен.
func IsValidPaymentMethod(m model.PaymentMethod) bool {
	return m == model.PaymentMethodCash || m == model.PaymentMethodStripe
}

// IsPastDate сообщает, что дата в формате DateLayout раньше текущего дня по UTC.
// Некорректная дата прошедшей не считается.
func IsPastDate(date string, now time.Time) bool {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	n := now.UTC()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}

// PriceAmount извлекает числовую часть цены, заданной произвольным текстом ("$75/service" -> 75).
// Если числа нет, возвращает 0.
func PriceAmount(price string) float64 {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	// берём самый длинный префикс вида 123.45, как parseFloat в браузере
	digits := b.String()
	end, dot := 0, false
	for end < len(digits) {
		if digits[end] == '.' {
			if dot {
				break
			}
			dot = true
		}
		end++
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(digits[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}
