package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Places escala con la que se redondean todos los importes monetarios.
const Places int32 = 2

// NormalizeCode valida un código ISO 4217 y lo devuelve en mayúsculas.
func NormalizeCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", fmt.Errorf("moneda %q: se esperan 3 letras", code)
	}
	unit, err := currency.ParseISO(c)
	if err != nil {
		return "", fmt.Errorf("moneda %q: %w", code, err)
	}
	return unit.String(), nil
}

// Same compara dos códigos sin distinguir mayúsculas ni espacios.
func Same(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Round redondea a Places decimales (mitad lejos de cero).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Format representa un importe para mostrar en pantalla, ej. "GHS 1,250.00".
// Si el código no es ISO válido devuelve el importe con dos decimales y el código tal cual.
func Format(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return amount.StringFixed(Places) + " " + code
	}
	f, _ := Round(amount).Float64()
	return message.NewPrinter(language.English).Sprint(currency.ISO(unit.Amount(f)))
}
