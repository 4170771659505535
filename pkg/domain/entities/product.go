package entities

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/events"
)

// Product is a sellable item built from associated parts. The associated
// parts are an ordered set of references into the inventory's part collection.
type Product struct {
	record

	associatedParts []*Part
}

// NewProduct creates a validated product with no associated parts
func NewProduct(id int, name string, price decimal.Decimal, stock, min, max int) (*Product, error) {
	r, err := newRecord(id, name, price, stock, min, max)
	if err != nil {
		return nil, err
	}
	return &Product{record: r}, nil
}

// Validate checks every field invariant
func (p *Product) Validate() error {
	return p.record.validate()
}

// AssociatedParts returns a snapshot of the associated parts in insertion order
func (p *Product) AssociatedParts() []*Part {
	parts := make([]*Part, len(p.associatedParts))
	copy(parts, p.associatedParts)
	return parts
}

// AssociatedPartCount returns the number of associated parts
func (p *Product) AssociatedPartCount() int {
	return len(p.associatedParts)
}

func (p *Product) indexOfAssociatedPart(part *Part) int {
	for i, ap := range p.associatedParts {
		if ap == part {
			return i
		}
	}
	return -1
}

// ContainsAssociatedPart reports whether part itself (not an equal copy) is associated
func (p *Product) ContainsAssociatedPart(part *Part) bool {
	return part != nil && p.indexOfAssociatedPart(part) >= 0
}

// LookupAssociatedPart returns the associated part with the given id
func (p *Product) LookupAssociatedPart(partID int) (*Part, bool) {
	if partID < 0 {
		return nil, false
	}
	for _, ap := range p.associatedParts {
		if ap.ID() == partID {
			return ap, true
		}
	}
	return nil, false
}

// AddAssociatedPart appends part unless it is already associated
func (p *Product) AddAssociatedPart(part *Part) error {
	if part == nil {
		return ErrNilEntity
	}
	if p.ContainsAssociatedPart(part) {
		return nil
	}
	old := p.AssociatedParts()
	p.associatedParts = append(p.associatedParts, part)
	p.publishParts(old)
	return nil
}

// DeleteAssociatedPart removes part and reports whether it was associated
func (p *Product) DeleteAssociatedPart(part *Part) bool {
	i := p.indexOfAssociatedPart(part)
	if part == nil || i < 0 {
		return false
	}
	old := p.AssociatedParts()
	p.associatedParts = append(p.associatedParts[:i:i], p.associatedParts[i+1:]...)
	p.publishParts(old)
	return true
}

// ReplaceAssociatedPart swaps old for replacement at the same position and
// reports whether old was associated. If replacement is already associated,
// old is simply removed.
func (p *Product) ReplaceAssociatedPart(old, replacement *Part) (bool, error) {
	if replacement == nil {
		return false, ErrNilEntity
	}
	i := p.indexOfAssociatedPart(old)
	if old == nil || i < 0 {
		return false, nil
	}
	if old == replacement {
		return true, nil
	}
	if p.ContainsAssociatedPart(replacement) {
		return p.DeleteAssociatedPart(old), nil
	}
	before := p.AssociatedParts()
	p.associatedParts[i] = replacement
	p.publishParts(before)
	return true, nil
}

// SetAllAssociatedParts replaces the associated parts, dropping duplicates and
// keeping first-seen order. Nothing changes if any element is nil.
func (p *Product) SetAllAssociatedParts(parts []*Part) error {
	next := make([]*Part, 0, len(parts))
	seen := make(map[*Part]bool, len(parts))
	for i, part := range parts {
		if part == nil {
			return fmt.Errorf("associated part %d: %w", i, ErrNilEntity)
		}
		if seen[part] {
			continue
		}
		seen[part] = true
		next = append(next, part)
	}
	if samePartSequence(p.associatedParts, next) {
		return nil
	}
	old := p.AssociatedParts()
	p.associatedParts = next
	p.publishParts(old)
	return nil
}

func samePartSequence(a, b []*Part) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p *Product) publishParts(old []*Part) {
	p.Publish(events.Change{Field: FieldAssociatedParts, Old: old, New: p.AssociatedParts()})
}

// ApplyValues copies src's stock-keeping fields onto p in place. Associated
// parts and the id are not copied.
func (p *Product) ApplyValues(src *Product) error {
	if src == nil {
		return ErrNilEntity
	}
	return p.record.applyValues(&src.record)
}

// Clone returns a copy with the same field values and associated part
// references, and no subscribers
func (p *Product) Clone() *Product {
	return &Product{
		record:          p.record.values(),
		associatedParts: p.AssociatedParts(),
	}
}

func (p *Product) String() string {
	return fmt.Sprintf("product %d %q", p.id, p.name)
}
