package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/events"
)

func mustInHouse(t *testing.T, id int, name string) *Part {
	t.Helper()
	p, err := NewInHouse(id, name, decimal.NewFromInt(1), 5, 1, 10, 1)
	if err != nil {
		t.Fatalf("Failed to create part %s: %v", name, err)
	}
	return p
}

func mustProduct(t *testing.T, id int, name string) *Product {
	t.Helper()
	p, err := NewProduct(id, name, decimal.NewFromInt(100), 5, 1, 10)
	if err != nil {
		t.Fatalf("Failed to create product %s: %v", name, err)
	}
	return p
}

func TestProduct_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		stock       int
		min         int
		max         int
		expectError string
	}{
		{"negative stock", -1, 0, 5, "stock cannot be negative, got -1"},
		{"negative min", 1, -2, 5, "min cannot be negative, got -2"},
		{"max not above min", 1, 3, 2, "max (2) must be greater than min (3)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProduct(0, "Bike", decimal.NewFromInt(1), tc.stock, tc.min, tc.max)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}

	// stock outside [min, max] is allowed
	if _, err := NewProduct(0, "Bike", decimal.Zero, 50, 1, 10); err != nil {
		t.Errorf("Expected stock above max to be accepted, got %v", err)
	}
}

func TestProduct_AssociatedParts(t *testing.T) {
	product := mustProduct(t, 0, "Bike")
	wheel := mustInHouse(t, 0, "Wheel")
	frame := mustInHouse(t, 1, "Frame")

	var notifications int
	if err := product.Subscribe(FieldAssociatedParts, func(c events.Change) { notifications++ }); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	if err := product.AddAssociatedPart(nil); !errors.Is(err, ErrNilEntity) {
		t.Errorf("Expected ErrNilEntity, got %v", err)
	}
	if err := product.AddAssociatedPart(wheel); err != nil {
		t.Fatalf("AddAssociatedPart failed: %v", err)
	}
	if err := product.AddAssociatedPart(frame); err != nil {
		t.Fatalf("AddAssociatedPart failed: %v", err)
	}
	if err := product.AddAssociatedPart(wheel); err != nil {
		t.Fatalf("AddAssociatedPart failed: %v", err)
	}
	if product.AssociatedPartCount() != 2 {
		t.Fatalf("Expected 2 associated parts, got %d", product.AssociatedPartCount())
	}
	if notifications != 2 {
		t.Errorf("Expected 2 notifications, got %d", notifications)
	}

	if !product.ContainsAssociatedPart(wheel) {
		t.Error("Expected wheel to be associated")
	}
	if product.ContainsAssociatedPart(wheel.Clone()) {
		t.Error("Expected an equal copy not to be associated")
	}

	found, ok := product.LookupAssociatedPart(1)
	if !ok || found != frame {
		t.Errorf("Expected lookup of id 1 to find frame, got %v", found)
	}
	if _, ok := product.LookupAssociatedPart(-1); ok {
		t.Error("Expected lookup of negative id to fail")
	}

	snapshot := product.AssociatedParts()
	snapshot[0] = nil
	if product.AssociatedParts()[0] != wheel {
		t.Error("Expected AssociatedParts to return a copy")
	}

	if !product.DeleteAssociatedPart(wheel) {
		t.Error("Expected wheel to be removed")
	}
	if product.DeleteAssociatedPart(wheel) {
		t.Error("Expected second removal to report false")
	}
	if notifications != 3 {
		t.Errorf("Expected 3 notifications, got %d", notifications)
	}
}

func TestProduct_ReplaceAssociatedPart(t *testing.T) {
	product := mustProduct(t, 0, "Bike")
	a := mustInHouse(t, 0, "A")
	b := mustInHouse(t, 1, "B")
	c := mustInHouse(t, 2, "C")
	for _, p := range []*Part{a, b, c} {
		_ = product.AddAssociatedPart(p)
	}

	replacement, err := NewOutsourced(1, "B", decimal.NewFromInt(1), 5, 1, 10, "Acme")
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}
	ok, err := product.ReplaceAssociatedPart(b, replacement)
	if err != nil || !ok {
		t.Fatalf("Expected replacement to succeed, got %v, %v", ok, err)
	}
	parts := product.AssociatedParts()
	if parts[1] != replacement {
		t.Errorf("Expected replacement at position 1, got %v", parts[1])
	}

	ok, _ = product.ReplaceAssociatedPart(b, replacement)
	if ok {
		t.Error("Expected replacing an absent part to report false")
	}

	ok, _ = product.ReplaceAssociatedPart(a, c)
	if !ok || product.AssociatedPartCount() != 2 {
		t.Errorf("Expected a to be dropped when c is already associated, got %d parts", product.AssociatedPartCount())
	}

	if _, err := product.ReplaceAssociatedPart(c, nil); !errors.Is(err, ErrNilEntity) {
		t.Errorf("Expected ErrNilEntity, got %v", err)
	}
}

func TestProduct_SetAllAssociatedParts(t *testing.T) {
	product := mustProduct(t, 0, "Bike")
	a := mustInHouse(t, 0, "A")
	b := mustInHouse(t, 1, "B")

	var changes []events.Change
	_ = product.SubscribeAll(func(c events.Change) { changes = append(changes, c) })

	if err := product.SetAllAssociatedParts([]*Part{a, b, a}); err != nil {
		t.Fatalf("SetAllAssociatedParts failed: %v", err)
	}
	if product.AssociatedPartCount() != 2 {
		t.Errorf("Expected duplicates dropped, got %d parts", product.AssociatedPartCount())
	}
	if len(changes) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(changes))
	}
	if old := changes[0].Old.([]*Part); len(old) != 0 {
		t.Errorf("Expected empty old list, got %v", old)
	}

	if err := product.SetAllAssociatedParts([]*Part{a, b}); err != nil {
		t.Fatalf("SetAllAssociatedParts failed: %v", err)
	}
	if len(changes) != 1 {
		t.Errorf("Expected no notification for an identical list, got %d", len(changes))
	}

	if err := product.SetAllAssociatedParts([]*Part{a, nil}); !errors.Is(err, ErrNilEntity) {
		t.Errorf("Expected ErrNilEntity, got %v", err)
	}
	if product.AssociatedPartCount() != 2 {
		t.Error("Expected list unchanged after failed replacement")
	}
}

func TestProduct_CloneAndApplyValues(t *testing.T) {
	product := mustProduct(t, 3, "Bike")
	wheel := mustInHouse(t, 0, "Wheel")
	_ = product.AddAssociatedPart(wheel)

	clone := product.Clone()
	if clone == product || clone.ID() != 3 || clone.Name() != "Bike" {
		t.Fatalf("Unexpected clone %v", clone)
	}
	if !clone.ContainsAssociatedPart(wheel) {
		t.Error("Expected clone to reference the same parts")
	}

	_ = clone.SetName("Road Bike")
	_ = clone.SetPrice(decimal.NewFromInt(250))
	_ = clone.DeleteAssociatedPart(wheel)

	if err := product.ApplyValues(clone); err != nil {
		t.Fatalf("ApplyValues failed: %v", err)
	}
	if product.Name() != "Road Bike" || !product.Price().Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected values applied, got %s %s", product.Name(), product.Price())
	}
	if !product.ContainsAssociatedPart(wheel) {
		t.Error("Expected ApplyValues to leave associated parts alone")
	}
}
