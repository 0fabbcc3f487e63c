package view

import (
	"errors"
	"testing"

	"github.com/cognisance/atelier/internal/catalog"
	"github.com/cognisance/atelier/internal/domain"
)

func newController(t *testing.T) *Controller {
	t.Helper()

	registry, err := catalog.NewRegistry(catalog.StudioCollection())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return NewController(registry)
}

func TestController_BaseScreen(t *testing.T) {
	c := newController(t)

	if got := c.Resolve(false); got.Screen != ScreenLanding {
		t.Errorf("Resolve(unauthenticated) = %q; want landing", got.Screen)
	}
	if got := c.Resolve(true); got.Screen != ScreenShop {
		t.Errorf("Resolve(authenticated) = %q; want shop", got.Screen)
	}
}

func TestController_ProductDetail(t *testing.T) {
	c := newController(t)

	if err := c.SelectProduct(2); err != nil {
		t.Fatalf("SelectProduct() error = %v", err)
	}

	got := c.Resolve(true)
	if got.Screen != ScreenProduct {
		t.Fatalf("Screen = %q; want product", got.Screen)
	}
	if got.Product == nil || got.Product.Name != "Luxury Bridal Gown" {
		t.Errorf("Product = %+v; want Luxury Bridal Gown", got.Product)
	}

	c.ClearProduct()
	if got := c.Resolve(true); got.Screen != ScreenShop {
		t.Errorf("Screen after ClearProduct = %q; want shop", got.Screen)
	}
}

func TestController_SelectProduct_Unknown(t *testing.T) {
	c := newController(t)

	if err := c.SelectProduct(99); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("SelectProduct(99) error = %v; want ErrProductNotFound", err)
	}
	if got := c.Resolve(true); got.Screen != ScreenShop {
		t.Errorf("failed selection must not change the screen; got %q", got.Screen)
	}
}

func TestController_OverlayPrecedence(t *testing.T) {
	c := newController(t)

	// Product detail open, then the cart overlay covers it.
	if err := c.SelectProduct(1); err != nil {
		t.Fatalf("SelectProduct() error = %v", err)
	}
	c.SetOverlay(OverlayCart)
	if got := c.Resolve(true); got.Screen != ScreenCart {
		t.Errorf("Screen = %q; want cart overlay over product detail", got.Screen)
	}

	// Orders overlay outranks the cart.
	c.SetOverlay(OverlayOrders)
	if got := c.Resolve(true); got.Screen != ScreenOrders {
		t.Errorf("Screen = %q; want orders overlay", got.Screen)
	}

	// Closing the overlay falls back to the still-selected product.
	c.SetOverlay(OverlayNone)
	if got := c.Resolve(true); got.Screen != ScreenProduct {
		t.Errorf("Screen = %q; want product after overlay closes", got.Screen)
	}
}

func TestController_OverlaysApplyWhileLoggedOut(t *testing.T) {
	c := newController(t)

	c.SetOverlay(OverlayCart)
	if got := c.Resolve(false); got.Screen != ScreenCart {
		t.Errorf("Screen = %q; want cart overlay regardless of session", got.Screen)
	}
}

func TestController_Reset(t *testing.T) {
	c := newController(t)

	c.SelectProduct(3)
	c.SetOverlay(OverlayOrders)
	c.Reset()

	got := c.Resolve(false)
	if got.Screen != ScreenLanding {
		t.Errorf("Screen after Reset = %q; want landing", got.Screen)
	}
	if got.Product != nil {
		t.Errorf("Product after Reset = %+v; want nil", got.Product)
	}
}

func TestParseOverlay(t *testing.T) {
	if _, err := ParseOverlay("cart"); err != nil {
		t.Errorf("ParseOverlay(cart) error = %v", err)
	}
	if _, err := ParseOverlay(""); err != nil {
		t.Errorf("ParseOverlay(empty) error = %v", err)
	}
	if _, err := ParseOverlay("wishlist"); err == nil {
		t.Error("ParseOverlay(wishlist) error = nil; want error")
	}
}
