package entities

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/events"
)

// Field names published in change notifications
const (
	FieldID              = "id"
	FieldName            = "name"
	FieldPrice           = "price"
	FieldStock           = "stock"
	FieldMin             = "min"
	FieldMax             = "max"
	FieldMachineID       = "machineId"
	FieldCompanyName     = "companyName"
	FieldAssociatedParts = "associatedParts"
)

// UnassignedID marks an entity whose id the inventory should allocate
const UnassignedID = -1

// IDGuard vets an id change against the collection that owns the entity
type IDGuard func(newID int) error

// record holds the stock-keeping fields shared by parts and products
type record struct {
	events.Notifier

	id    int
	name  string
	price decimal.Decimal
	stock int
	min   int
	max   int

	guard IDGuard
}

func newRecord(id int, name string, price decimal.Decimal, stock, min, max int) (record, error) {
	if err := validateRecord(name, price, stock, min, max); err != nil {
		return record{}, err
	}
	return record{
		id:    id,
		name:  strings.TrimSpace(name),
		price: price,
		stock: stock,
		min:   min,
		max:   max,
	}, nil
}

func validateRecord(name string, price decimal.Decimal, stock, min, max int) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if err := validateStock(stock); err != nil {
		return err
	}
	return validateMinMax(min, max)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError(FieldName, "name cannot be empty")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return newValidationError(FieldPrice, "price cannot be negative, got %s", price.String())
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return newValidationError(FieldStock, "stock cannot be negative, got %d", stock)
	}
	return nil
}

func validateMinMax(min, max int) error {
	if min < 0 {
		return newValidationError(FieldMin, "min cannot be negative, got %d", min)
	}
	if max <= min {
		return newValidationError(FieldMax, "max (%d) must be greater than min (%d)", max, min)
	}
	return nil
}

// values copies the stock-keeping fields without subscribers or id guard
func (r *record) values() record {
	return record{
		id:    r.id,
		name:  r.name,
		price: r.price,
		stock: r.stock,
		min:   r.min,
		max:   r.max,
	}
}

func (r *record) validate() error {
	return validateRecord(r.name, r.price, r.stock, r.min, r.max)
}

// ID returns the unique identifier
func (r *record) ID() int { return r.id }

// Name returns the trimmed name
func (r *record) Name() string { return r.name }

// Price returns the unit price
func (r *record) Price() decimal.Decimal { return r.price }

// Stock returns the inventory level
func (r *record) Stock() int { return r.stock }

// Min returns the minimum inventory level
func (r *record) Min() int { return r.min }

// Max returns the maximum inventory level
func (r *record) Max() int { return r.max }

// SetID changes the identifier. A negative id fails with *InvalidKeyError; once
// the entity belongs to an inventory, an id held by another member fails with
// *DuplicateKeyError.
func (r *record) SetID(id int) error {
	if id < 0 {
		return &InvalidKeyError{ID: id}
	}
	if id == r.id {
		return nil
	}
	if r.guard != nil {
		if err := r.guard(id); err != nil {
			return err
		}
	}
	old := r.id
	r.id = id
	r.Publish(events.Change{Field: FieldID, Old: old, New: id})
	return nil
}

// AttachIDGuard binds the entity to the collection that owns it. Only the
// inventory store should call this.
func (r *record) AttachIDGuard(guard IDGuard) {
	r.guard = guard
}

// DetachIDGuard releases the entity from its owning collection
func (r *record) DetachIDGuard() {
	r.guard = nil
}

// SetName sets the name, stored trimmed
func (r *record) SetName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == r.name {
		return nil
	}
	old := r.name
	r.name = name
	r.Publish(events.Change{Field: FieldName, Old: old, New: name})
	return nil
}

// SetPrice sets the unit price
func (r *record) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if price.Equal(r.price) {
		return nil
	}
	old := r.price
	r.price = price
	r.Publish(events.Change{Field: FieldPrice, Old: old, New: price})
	return nil
}

// SetStock sets the inventory level
func (r *record) SetStock(stock int) error {
	if err := validateStock(stock); err != nil {
		return err
	}
	if stock == r.stock {
		return nil
	}
	old := r.stock
	r.stock = stock
	r.Publish(events.Change{Field: FieldStock, Old: old, New: stock})
	return nil
}

// SetMinMax validates both bounds before applying either, then notifies min before max
func (r *record) SetMinMax(min, max int) error {
	if err := validateMinMax(min, max); err != nil {
		return err
	}
	oldMin, oldMax := r.min, r.max
	r.min, r.max = min, max
	if oldMin != min {
		r.Publish(events.Change{Field: FieldMin, Old: oldMin, New: min})
	}
	if oldMax != max {
		r.Publish(events.Change{Field: FieldMax, Old: oldMax, New: max})
	}
	return nil
}

// applyValues copies src's shared fields through the validated setters. The id is left alone.
func (r *record) applyValues(src *record) error {
	if err := src.validate(); err != nil {
		return err
	}
	if err := r.SetName(src.name); err != nil {
		return err
	}
	if err := r.SetPrice(src.price); err != nil {
		return err
	}
	if err := r.SetStock(src.stock); err != nil {
		return err
	}
	return r.SetMinMax(src.min, src.max)
}
