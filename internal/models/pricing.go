package models

import "math"

// LineTotal computes an opportunity line item's total price:
//
//	quantity × unit_price × (1 − discount/100), rounded to 2 decimals.
//
// This is the single source of truth for the derived total_price column.
// ItemStore calls it on insert and on every quantity/discount update;
// ProductStore re-applies the same formula (in SQL, same rounding) to all
// referencing items when a unit price changes. Don't compute the total
// anywhere else.
func LineTotal(quantity int, unitPrice, discountPct float64) float64 {
	total := float64(quantity) * unitPrice * (1 - discountPct/100)
	return math.Round(total*100) / 100
}
