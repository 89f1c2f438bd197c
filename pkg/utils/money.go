package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBRL parses a Brazilian-formatted decimal string such as "100,00" or
// "1.234,56". Dots are thousands separators and are stripped before the comma
// is promoted to a decimal point, so "100.50" parses as 10050.
func ParseBRL(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(trimmed, "R$")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return 0, fmt.Errorf("empty amount")
	}

	normalized := strings.ReplaceAll(trimmed, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")

	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	return amount, nil
}

// FormatBRL renders an amount the way the payment emails expect it,
// e.g. 250.0 -> "R$ 250,00".
func FormatBRL(amount float64) string {
	return "R$ " + strings.Replace(strconv.FormatFloat(amount, 'f', 2, 64), ".", ",", 1)
}
