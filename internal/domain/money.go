package domain

import "fmt"

// Money is an amount in pesewas (minor units of the Ghanaian cedi).
// Integer arithmetic keeps cart and order totals exact.
type Money int64

// Cedis builds a Money value from whole cedis.
func Cedis(amount int64) Money {
	return Money(amount * 100)
}

// Pesewas returns the raw minor-unit value.
func (m Money) Pesewas() int64 {
	return int64(m)
}

// Mul scales the amount by a line quantity.
func (m Money) Mul(quantity int) Money {
	return m * Money(quantity)
}

// String formats the amount as GH₵, omitting the fraction for whole cedis.
func (m Money) String() string {
	if m%100 == 0 {
		return fmt.Sprintf("GH₵%d", int64(m)/100)
	}
	return fmt.Sprintf("GH₵%d.%02d", int64(m)/100, int64(m)%100)
}
