// internal/wizard/format/format.go
package format

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Field masks applied on every keystroke before the value is stored into the
// aggregate. All of them strip non-digits first and truncate progressively,
// so they are idempotent on already-formatted input.

func digits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CPF groups digits as ###.###.###-##, capped at 11 digits.
func CPF(value string) string {
	numbers := digits(value)

	switch {
	case len(numbers) == 0:
		return ""
	case len(numbers) <= 3:
		return numbers
	case len(numbers) <= 6:
		return numbers[:3] + "." + numbers[3:]
	case len(numbers) <= 9:
		return numbers[:3] + "." + numbers[3:6] + "." + numbers[6:]
	}

	if len(numbers) > 11 {
		numbers = numbers[:11]
	}
	return numbers[:3] + "." + numbers[3:6] + "." + numbers[6:9] + "-" + numbers[9:]
}

// Date groups digits as DD/MM/YYYY, capped at 8 digits.
func Date(value string) string {
	numbers := digits(value)

	switch {
	case len(numbers) == 0:
		return ""
	case len(numbers) <= 2:
		return numbers
	case len(numbers) <= 4:
		return numbers[:2] + "/" + numbers[2:]
	}

	if len(numbers) > 8 {
		numbers = numbers[:8]
	}
	return numbers[:2] + "/" + numbers[2:4] + "/" + numbers[4:]
}

// WhatsApp groups digits as (DD) DDDDD-DDDD, capped at 11 digits.
func WhatsApp(value string) string {
	numbers := digits(value)

	switch {
	case len(numbers) == 0:
		return ""
	case len(numbers) <= 2:
		return "(" + numbers
	case len(numbers) <= 7:
		return "(" + numbers[:2] + ") " + numbers[2:]
	}

	if len(numbers) > 11 {
		numbers = numbers[:11]
	}
	return "(" + numbers[:2] + ") " + numbers[2:7] + "-" + numbers[7:]
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

// maxSalaryDigits keeps the cents accumulator far away from the int64 limit.
const maxSalaryDigits = 15

// Salary treats the digits as cents and renders them as pt-BR BRL, e.g.
// "100" becomes "R$ 1,00". Empty input yields an empty string, not "R$ 0,00".
func Salary(value string) string {
	numbers := digits(value)
	if numbers == "" {
		return ""
	}
	if len(numbers) > maxSalaryDigits {
		numbers = numbers[:maxSalaryDigits]
	}

	var cents int64
	for _, r := range numbers {
		cents = cents*10 + int64(r-'0')
	}

	return brl.Sprintf("R$ %v", number.Decimal(float64(cents)/100, number.Scale(2)))
}
