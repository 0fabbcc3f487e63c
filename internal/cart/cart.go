package cart

import (
	"fmt"

	"github.com/cognisance/atelier/internal/domain"
)

// Line is a cart entry for one product. A cart never holds two lines for
// the same product id; adding an existing product merges quantities.
type Line struct {
	ProductID int          `json:"product_id"`
	Name      string       `json:"name"`
	UnitPrice domain.Money `json:"unit_price"`
	Image     string       `json:"image,omitempty"`
	Quantity  int          `json:"quantity"`
}

// Subtotal returns unit price times quantity.
func (l Line) Subtotal() domain.Money {
	return l.UnitPrice.Mul(l.Quantity)
}

// Cart is the volatile shopping cart aggregate. It is lost on restart by
// design; only the operations below may mutate it.
type Cart struct {
	lines []Line
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts quantity units of the product in the cart. If a line for the
// product already exists its quantity is increased; a new line is appended
// otherwise. Quantity must be at least 1.
func (c *Cart) Add(product domain.Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Quantity += quantity
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	})
	return nil
}

// SetQuantity sets a line's quantity exactly. A quantity of zero or less
// removes the line. An unknown product id is a no-op.
func (c *Cart) SetQuantity(productID, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the line for the product, if present.
func (c *Cart) Remove(productID int) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the derived cart total, recomputed on every call so it can
// never go stale.
func (c *Cart) Total() domain.Money {
	var total domain.Money
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities over all lines, used for the cart
// badge.
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Snapshot converts the cart lines into immutable order line snapshots.
func (c *Cart) Snapshot() []domain.OrderLine {
	out := make([]domain.OrderLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = domain.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Image:     l.Image,
			Quantity:  l.Quantity,
		}
	}
	return out
}
