package view

import (
	"fmt"
	"sync"

	"github.com/cognisance/atelier/internal/catalog"
	"github.com/cognisance/atelier/internal/domain"
)

// Screen names the top-level view the client should render.
type Screen string

const (
	ScreenLanding Screen = "landing"
	ScreenShop    Screen = "shop"
	ScreenProduct Screen = "product"
	ScreenCart    Screen = "cart"
	ScreenOrders  Screen = "orders"
)

// Overlay is a panel drawn over the base screen. At most one is open.
type Overlay string

const (
	OverlayNone   Overlay = ""
	OverlayCart   Overlay = "cart"
	OverlayOrders Overlay = "orders"
)

// ParseOverlay maps a request value to an overlay.
func ParseOverlay(s string) (Overlay, error) {
	switch Overlay(s) {
	case OverlayNone, OverlayCart, OverlayOrders:
		return Overlay(s), nil
	}
	return OverlayNone, fmt.Errorf("unknown overlay %q", s)
}

// State is the resolved view the client renders.
type State struct {
	Screen  Screen          `json:"screen"`
	Product *domain.Product `json:"product,omitempty"`
}

// Controller derives the visible screen from session state plus its own
// selection state. It owns nothing durable; Reset returns it to the base
// screen.
type Controller struct {
	catalog *catalog.Registry

	mu       sync.Mutex
	selected *domain.Product
	overlay  Overlay
}

// NewController creates a view controller over the catalog.
func NewController(registry *catalog.Registry) *Controller {
	return &Controller{catalog: registry}
}

// SelectProduct opens the detail view for the product.
func (c *Controller) SelectProduct(productID int) error {
	product, err := c.catalog.Get(productID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &product
	return nil
}

// ClearProduct returns from the detail view to the listing.
func (c *Controller) ClearProduct() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// SetOverlay opens the given overlay, or closes any with OverlayNone.
func (c *Controller) SetOverlay(overlay Overlay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay = overlay
}

// Reset clears all selection state, as on logout or teardown.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.overlay = OverlayNone
}

// Resolve picks the screen to show. Overlays win over the product detail,
// which wins over the base screen; the base is the shop when a session is
// active and the landing funnel otherwise.
func (c *Controller) Resolve(authenticated bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.overlay {
	case OverlayOrders:
		return State{Screen: ScreenOrders}
	case OverlayCart:
		return State{Screen: ScreenCart}
	}

	if c.selected != nil {
		product := *c.selected
		return State{Screen: ScreenProduct, Product: &product}
	}

	if authenticated {
		return State{Screen: ScreenShop}
	}
	return State{Screen: ScreenLanding}
}
