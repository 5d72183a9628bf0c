// internal/wizard/validate/validate.go
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonDigits  = regexp.MustCompile(`\D`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// CPF accepts exactly 11 digits after stripping formatting. There is no
// checksum verification; the backend treats the value as free text.
func CPF(cpf string) bool {
	return len(nonDigits.ReplaceAllString(cpf, "")) == 11
}

// Date accepts DD/MM/YYYY with day 1-31, month 1-12 and year between 1900 and
// the current year. There is no days-in-month or leap-year check, so
// "31/02/2020" passes.
func Date(date string) bool {
	numbers := nonDigits.ReplaceAllString(date, "")
	if len(numbers) != 8 {
		return false
	}

	day, _ := strconv.Atoi(numbers[:2])
	month, _ := strconv.Atoi(numbers[2:4])
	year, _ := strconv.Atoi(numbers[4:8])

	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > 31 {
		return false
	}
	if year < 1900 || year > time.Now().Year() {
		return false
	}

	return true
}

// Email accepts a simple local@domain.tld shape with no whitespace.
func Email(email string) bool {
	return emailRegex.MatchString(email)
}

// WhatsApp accepts any value carrying at least 10 digits (DDD plus number).
func WhatsApp(whatsapp string) bool {
	return len(nonDigits.ReplaceAllString(whatsapp, "")) >= 10
}

// FullName requires at least two whitespace-separated tokens.
func FullName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && len(strings.Fields(trimmed)) >= 2
}

// Salary requires at least one digit parsing to a positive integer of cents.
func Salary(salary string) bool {
	numbers := nonDigits.ReplaceAllString(salary, "")
	if numbers == "" {
		return false
	}
	value, err := strconv.ParseInt(numbers, 10, 64)
	return err == nil && value > 0
}
