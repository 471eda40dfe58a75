package entity

import "github.com/shopspring/decimal"

// TaxRate impuesto porcentual con nombre (ej. VAT 15%, NHIL 2.5%).
// Rate es un porcentaje: 15 = 15%.
type TaxRate struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}
