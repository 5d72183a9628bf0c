// internal/wizard/format/format_test.go
package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPF(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"below grouping", "12", "12"},
		{"three digits", "123", "123"},
		{"dot after three", "1234", "123.4"},
		{"dot after six", "1234567", "123.456.7"},
		{"dash after nine", "1234567890", "123.456.789-0"},
		{"full", "12345678909", "123.456.789-09"},
		{"overflow truncated", "123456789091234", "123.456.789-09"},
		{"already formatted", "123.456.789-09", "123.456.789-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CPF(tt.input))
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"day only", "31", "31"},
		{"day and month", "3112", "31/12"},
		{"partial year", "311219", "31/12/19"},
		{"full", "31121990", "31/12/1990"},
		{"overflow truncated", "311219901", "31/12/1990"},
		{"already formatted", "31/12/1990", "31/12/1990"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Date(tt.input))
		})
	}
}

func TestWhatsApp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"opens paren immediately", "1", "(1"},
		{"closes after two", "119", "(11) 9"},
		{"dash after seven", "11987654", "(11) 98765-4"},
		{"full", "11987654321", "(11) 98765-4321"},
		{"overflow truncated", "119876543210", "(11) 98765-4321"},
		{"already formatted", "(11) 98765-4321", "(11) 98765-4321"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WhatsApp(tt.input))
		})
	}
}

// format(format(x)) == format(x) for arbitrary partial digit strings.
func TestMasksAreIdempotent(t *testing.T) {
	inputs := []string{"", "1", "12", "123", "1234", "12345", "123456",
		"1234567", "12345678", "123456789", "1234567890", "12345678901"}

	for _, in := range inputs {
		assert.Equal(t, CPF(in), CPF(CPF(in)), "CPF(%q)", in)
		assert.Equal(t, Date(in), Date(Date(in)), "Date(%q)", in)
		assert.Equal(t, WhatsApp(in), WhatsApp(WhatsApp(in)), "WhatsApp(%q)", in)
	}
}

func TestSalary(t *testing.T) {
	assert.Equal(t, "", Salary(""))
	assert.Equal(t, "R$ 1,00", Salary("100"))
	assert.Equal(t, "R$ 0,01", Salary("1"))
	assert.Equal(t, "R$ 1.234,56", Salary("123456"))
	assert.Equal(t, "", Salary("abc"))
}

// A pasted wall of digits is truncated like the other masks instead of
// wrapping the cents accumulator.
func TestSalaryTruncatesLongDigitRuns(t *testing.T) {
	long := Salary(strings.Repeat("9", 40))

	assert.Equal(t, Salary(strings.Repeat("9", maxSalaryDigits)), long)
	assert.NotContains(t, long, "-")
}
