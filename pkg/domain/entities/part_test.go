package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/events"
)

func TestPart_Validation(t *testing.T) {
	validPart, err := NewInHouse(UnassignedID, "  Widget  ", decimal.NewFromFloat(2.5), 10, 1, 20, 7)
	if err != nil {
		t.Fatalf("Expected valid part creation to succeed: %v", err)
	}
	if validPart.Name() != "Widget" {
		t.Errorf("Expected trimmed name Widget, got %q", validPart.Name())
	}
	if validPart.Kind() != InHouse || validPart.MachineID() != 7 {
		t.Errorf("Expected in-house part with machine 7, got %s machine %d", validPart.Kind(), validPart.MachineID())
	}

	testCases := []struct {
		name        string
		partName    string
		price       decimal.Decimal
		stock       int
		min         int
		max         int
		company     string
		expectField string
		expectError string
	}{
		{"empty name", "", decimal.NewFromInt(1), 1, 0, 5, "Acme", FieldName, "name cannot be empty"},
		{"blank name", "   ", decimal.NewFromInt(1), 1, 0, 5, "Acme", FieldName, "name cannot be empty"},
		{"negative price", "Gear", decimal.NewFromInt(-1), 1, 0, 5, "Acme", FieldPrice, "price cannot be negative, got -1"},
		{"negative stock", "Gear", decimal.NewFromInt(1), -3, 0, 5, "Acme", FieldStock, "stock cannot be negative, got -3"},
		{"negative min", "Gear", decimal.NewFromInt(1), 1, -1, 5, "Acme", FieldMin, "min cannot be negative, got -1"},
		{"max equal to min", "Gear", decimal.NewFromInt(1), 1, 5, 5, "Acme", FieldMax, "max (5) must be greater than min (5)"},
		{"max below min", "Gear", decimal.NewFromInt(1), 1, 10, 5, "Acme", FieldMax, "max (5) must be greater than min (10)"},
		{"empty company", "Gear", decimal.NewFromInt(1), 1, 0, 5, " ", FieldCompanyName, "company name cannot be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOutsourced(UnassignedID, tc.partName, tc.price, tc.stock, tc.min, tc.max, tc.company)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.expectField {
				t.Errorf("Expected field '%s', got '%s'", tc.expectField, verr.Field)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestPart_SettersNotifyOnlyOnChange(t *testing.T) {
	part, err := NewInHouse(3, "Bolt", decimal.NewFromInt(1), 5, 1, 10, 1)
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}

	var changes []events.Change
	if err := part.SubscribeAll(func(c events.Change) { changes = append(changes, c) }); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	if err := part.SetName(" Bolt "); err != nil {
		t.Fatalf("SetName failed: %v", err)
	}
	if err := part.SetPrice(decimal.RequireFromString("1.00")); err != nil {
		t.Fatalf("SetPrice failed: %v", err)
	}
	if err := part.SetStock(5); err != nil {
		t.Fatalf("SetStock failed: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("Expected no notifications for equal values, got %d", len(changes))
	}

	if err := part.SetStock(6); err != nil {
		t.Fatalf("SetStock failed: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(changes))
	}
	if changes[0].Field != FieldStock || changes[0].Old != 5 || changes[0].New != 6 {
		t.Errorf("Unexpected change %+v", changes[0])
	}
}

func TestPart_SetMinMaxIsAtomic(t *testing.T) {
	part, err := NewInHouse(0, "Nut", decimal.NewFromInt(1), 5, 1, 10, 1)
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}

	var fields []string
	if err := part.SubscribeAll(func(c events.Change) { fields = append(fields, c.Field) }); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	if err := part.SetMinMax(20, 15); err == nil {
		t.Fatal("Expected error for max below min")
	}
	if part.Min() != 1 || part.Max() != 10 {
		t.Errorf("Expected bounds unchanged at 1..10, got %d..%d", part.Min(), part.Max())
	}
	if len(fields) != 0 {
		t.Errorf("Expected no notifications after failed SetMinMax, got %v", fields)
	}

	if err := part.SetMinMax(2, 30); err != nil {
		t.Fatalf("SetMinMax failed: %v", err)
	}
	if len(fields) != 2 || fields[0] != FieldMin || fields[1] != FieldMax {
		t.Errorf("Expected [min max] notifications, got %v", fields)
	}

	fields = nil
	if err := part.SetMinMax(2, 40); err != nil {
		t.Fatalf("SetMinMax failed: %v", err)
	}
	if len(fields) != 1 || fields[0] != FieldMax {
		t.Errorf("Expected only max notification, got %v", fields)
	}
}

func TestPart_FieldSubscription(t *testing.T) {
	part, err := NewOutsourced(0, "Spring", decimal.NewFromInt(3), 5, 1, 10, "Acme")
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}

	var priceChanges int
	handler := func(c events.Change) { priceChanges++ }
	if err := part.Subscribe(FieldPrice, handler); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	_ = part.SetName("Coil Spring")
	_ = part.SetPrice(decimal.NewFromInt(4))
	if priceChanges != 1 {
		t.Fatalf("Expected 1 price notification, got %d", priceChanges)
	}

	if err := part.Unsubscribe(FieldPrice, handler); err != nil {
		t.Fatalf("Failed to unsubscribe: %v", err)
	}
	_ = part.SetPrice(decimal.NewFromInt(5))
	if priceChanges != 1 {
		t.Errorf("Expected no notification after unsubscribe, got %d", priceChanges)
	}
}

func TestPart_HandlerEditsPublishingPart(t *testing.T) {
	part, err := NewInHouse(0, "Axle", decimal.NewFromInt(3), 5, 1, 10, 4)
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}

	var fields []string
	var subscribeErr error
	err = part.SubscribeAll(func(c events.Change) {
		fields = append(fields, c.Field)
		if c.Field == FieldPrice {
			_ = part.SetStock(9)
			subscribeErr = part.Subscribe(FieldName, func(events.Change) {})
		}
	})
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	if err := part.SetPrice(decimal.NewFromInt(6)); err != nil {
		t.Fatalf("Failed to set price: %v", err)
	}
	if len(fields) != 2 || fields[0] != FieldPrice || fields[1] != FieldStock {
		t.Errorf("Expected price then stock notifications, got %v", fields)
	}
	if part.Stock() != 9 {
		t.Errorf("Expected stock 9 set by the handler, got %d", part.Stock())
	}
	if !errors.Is(subscribeErr, events.ErrDispatching) {
		t.Errorf("Expected ErrDispatching from a handler subscribing, got %v", subscribeErr)
	}
	if part.HasSubscribers(FieldName) {
		t.Error("Expected the rejected subscription not to be registered")
	}

	if err := part.Subscribe(FieldName, func(events.Change) {}); err != nil {
		t.Errorf("Expected subscribing after delivery to succeed: %v", err)
	}
	if !part.HasSubscribers(FieldName) {
		t.Error("Expected a name subscriber")
	}
}

func TestPart_VariantSetters(t *testing.T) {
	inHouse, _ := NewInHouse(0, "Axle", decimal.NewFromInt(3), 5, 1, 10, 4)
	outsourced, _ := NewOutsourced(1, "Hub", decimal.NewFromInt(3), 5, 1, 10, "Acme")

	if err := inHouse.SetCompanyName("Acme"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter setting company on in-house part, got %v", err)
	}
	if err := outsourced.SetMachineID(3); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter setting machine on outsourced part, got %v", err)
	}
	if err := outsourced.SetCompanyName(""); err == nil {
		t.Error("Expected error for empty company name")
	}
	if err := outsourced.SetCompanyName(" Globex "); err != nil {
		t.Fatalf("SetCompanyName failed: %v", err)
	}
	if outsourced.CompanyName() != "Globex" {
		t.Errorf("Expected trimmed company Globex, got %q", outsourced.CompanyName())
	}
}

func TestPart_SetID(t *testing.T) {
	part, _ := NewInHouse(UnassignedID, "Cam", decimal.NewFromInt(3), 5, 1, 10, 4)

	var invalid *InvalidKeyError
	if err := part.SetID(-2); !errors.As(err, &invalid) {
		t.Fatalf("Expected *InvalidKeyError, got %v", err)
	}

	part.AttachIDGuard(func(newID int) error {
		if newID == 9 {
			return &DuplicateKeyError{ID: newID}
		}
		return nil
	})
	var duplicate *DuplicateKeyError
	if err := part.SetID(9); !errors.As(err, &duplicate) {
		t.Fatalf("Expected *DuplicateKeyError, got %v", err)
	}
	if part.ID() != UnassignedID {
		t.Errorf("Expected id unchanged after rejected change, got %d", part.ID())
	}
	if err := part.SetID(4); err != nil {
		t.Fatalf("SetID failed: %v", err)
	}

	part.DetachIDGuard()
	if err := part.SetID(9); err != nil {
		t.Errorf("Expected detached part to accept id 9, got %v", err)
	}
}

func TestPart_ApplyValues(t *testing.T) {
	target, _ := NewInHouse(2, "Shaft", decimal.NewFromInt(3), 5, 1, 10, 4)
	src, _ := NewInHouse(2, "Long Shaft", decimal.NewFromInt(6), 5, 2, 12, 8)

	var fields []string
	_ = target.SubscribeAll(func(c events.Change) { fields = append(fields, c.Field) })

	if err := target.ApplyValues(src); err != nil {
		t.Fatalf("ApplyValues failed: %v", err)
	}
	expected := []string{FieldName, FieldPrice, FieldMin, FieldMax, FieldMachineID}
	if len(fields) != len(expected) {
		t.Fatalf("Expected notifications %v, got %v", expected, fields)
	}
	for i := range expected {
		if fields[i] != expected[i] {
			t.Errorf("Notification %d: expected %s, got %s", i, expected[i], fields[i])
		}
	}

	other, _ := NewOutsourced(2, "Shaft", decimal.NewFromInt(3), 5, 1, 10, "Acme")
	if err := target.ApplyValues(other); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter applying across kinds, got %v", err)
	}
}

func TestParsePartKind(t *testing.T) {
	testCases := []struct {
		input    string
		expected PartKind
	}{
		{"inhouse", InHouse},
		{"In-House", InHouse},
		{"InHouse", InHouse},
		{" outsourced ", Outsourced},
	}
	for _, tc := range testCases {
		kind, err := ParsePartKind(tc.input)
		if err != nil {
			t.Errorf("ParsePartKind(%q) failed: %v", tc.input, err)
			continue
		}
		if kind != tc.expected {
			t.Errorf("ParsePartKind(%q) = %s, expected %s", tc.input, kind, tc.expected)
		}
	}
	if _, err := ParsePartKind("bought"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}
