// Package codes содержит генерацию и валидацию номеров заказов и кодов купонов.
package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// OrderNumberLength — длина номера заказа.
	OrderNumberLength = 6
	// CouponCodeLength — длина кода купона.
	CouponCodeLength = 7
)

const (
	digits         = "0123456789"
	couponAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewOrderNumber генерирует случайный шестизначный номер заказа.
// Уникальность номер не гарантирует: её обеспечивает ограничение в БД,
// а вызывающая сторона перегенерирует номер при конфликте.
func NewOrderNumber() (string, error) {
	return randomString(digits, OrderNumberLength)
}

// NewCouponCode генерирует случайный семизначный код купона из заглавных
// латинских букв и цифр. Про уникальность — см. NewOrderNumber.
func NewCouponCode() (string, error) {
	return randomString(couponAlphabet, CouponCodeLength)
}

func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random index: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsValidOrderNumber проверяет, что строка — шестизначный номер заказа.
func IsValidOrderNumber(number string) bool {
	if len(number) != OrderNumberLength {
		return false
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
	}
	return true
}

// IsValidCouponCode проверяет, что строка — семизначный код купона.
func IsValidCouponCode(code string) bool {
	if len(code) != CouponCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
