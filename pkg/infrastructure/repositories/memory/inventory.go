package memory

import (
	"fmt"
	"strings"

	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/domain/repositories"
	"github.com/vsinha/ims/pkg/domain/services"
	"github.com/vsinha/ims/pkg/infrastructure/events"
)

// Inventory is the in-memory store of parts and products for one session.
// It owns the canonical instances; products hold references into its part
// collection. It is not safe for concurrent use.
type Inventory struct {
	parts    []*entities.Part
	products []*entities.Product
	journal  *events.InMemoryEventStore
}

// NewInventory creates an empty inventory with its own event journal
func NewInventory() *Inventory {
	return &Inventory{
		parts:    make([]*entities.Part, 0),
		products: make([]*entities.Product, 0),
		journal:  events.NewInMemoryEventStore(),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*Inventory)(nil)

// Journal returns the event journal that records every collection change
func (s *Inventory) Journal() *events.InMemoryEventStore {
	return s.journal
}

// Subscribe registers handler for collection events of the given types
func (s *Inventory) Subscribe(eventTypes []string, handler events.EventHandler) error {
	return s.journal.Subscribe(eventTypes, handler)
}

// Unsubscribe removes a collection event handler
func (s *Inventory) Unsubscribe(handler events.EventHandler) error {
	return s.journal.Unsubscribe(handler)
}

func (s *Inventory) record(eventType, streamID string, data interface{}) {
	// subscriber failures go to the journal's error handler
	_ = s.journal.AppendEvent(streamID, events.NewEvent(eventType, streamID, data))
}

func (s *Inventory) bindPart(part *entities.Part) {
	part.AttachIDGuard(func(newID int) error {
		return services.AssertValidIDChange(part, newID, s.parts)
	})
}

func (s *Inventory) bindProduct(product *entities.Product) {
	product.AttachIDGuard(func(newID int) error {
		return services.AssertValidIDChange(product, newID, s.products)
	})
}

// AddPart appends part, assigning the lowest free id when its id is negative
// or taken. Adding a part already in the inventory does nothing.
func (s *Inventory) AddPart(part *entities.Part) error {
	if part == nil {
		return entities.ErrNilEntity
	}
	if s.IndexOfPart(part) >= 0 {
		return nil
	}
	if err := part.Validate(); err != nil {
		return err
	}
	if err := services.EnsureID(part, s.parts); err != nil {
		return fmt.Errorf("failed to assign part id: %w", err)
	}
	s.parts = append(s.parts, part)
	s.bindPart(part)
	s.record(events.PartAddedEvent, events.PartStream(part.ID()), events.PartAdded{Index: len(s.parts) - 1, Part: part})
	return nil
}

// AddProduct appends product, assigning the lowest free id when its id is
// negative or taken. Associated parts missing from the inventory are added
// first.
func (s *Inventory) AddProduct(product *entities.Product) error {
	if product == nil {
		return entities.ErrNilEntity
	}
	if s.IndexOfProduct(product) >= 0 {
		return nil
	}
	if err := product.Validate(); err != nil {
		return err
	}
	if err := s.addMissingParts(product.AssociatedParts()); err != nil {
		return err
	}
	if err := services.EnsureID(product, s.products); err != nil {
		return fmt.Errorf("failed to assign product id: %w", err)
	}
	s.products = append(s.products, product)
	s.bindProduct(product)
	s.record(events.ProductAddedEvent, events.ProductStream(product.ID()), events.ProductAdded{Index: len(s.products) - 1, Product: product})
	return nil
}

// UpdatePart overwrites the part at index with part's values. The ids must
// match. A part of the same kind is updated in place; a change of kind puts
// part itself in the slot and relinks every product that referenced the
// previous instance.
func (s *Inventory) UpdatePart(index int, part *entities.Part) error {
	if part == nil {
		return entities.ErrNilEntity
	}
	if index < 0 || index >= len(s.parts) {
		return fmt.Errorf("%w: part index %d out of range [0,%d)", entities.ErrInvalidParameter, index, len(s.parts))
	}
	existing := s.parts[index]
	if existing.ID() != part.ID() {
		return fmt.Errorf("%w: part id %d does not match id %d at index %d", entities.ErrInvalidParameter, part.ID(), existing.ID(), index)
	}
	if err := part.Validate(); err != nil {
		return err
	}
	if existing == part {
		return nil
	}

	if existing.Kind() == part.Kind() {
		if err := existing.ApplyValues(part); err != nil {
			return err
		}
		s.record(events.PartUpdatedEvent, events.PartStream(existing.ID()), events.PartUpdated{Index: index, Part: existing})
		return nil
	}

	var relinked []int
	for _, product := range s.products {
		ok, err := product.ReplaceAssociatedPart(existing, part)
		if err != nil {
			return err
		}
		if ok {
			relinked = append(relinked, product.ID())
		}
	}
	existing.DetachIDGuard()
	s.parts[index] = part
	s.bindPart(part)
	s.record(events.PartReplacedEvent, events.PartStream(part.ID()), events.PartReplaced{
		Index:            index,
		OldPart:          existing,
		NewPart:          part,
		RelinkedProducts: relinked,
	})
	return nil
}

// UpdateProduct overwrites the product at index with product's values and
// associated parts. The ids must match. Associated parts missing from the
// inventory are added first.
func (s *Inventory) UpdateProduct(index int, product *entities.Product) error {
	if product == nil {
		return entities.ErrNilEntity
	}
	if index < 0 || index >= len(s.products) {
		return fmt.Errorf("%w: product index %d out of range [0,%d)", entities.ErrInvalidParameter, index, len(s.products))
	}
	existing := s.products[index]
	if existing.ID() != product.ID() {
		return fmt.Errorf("%w: product id %d does not match id %d at index %d", entities.ErrInvalidParameter, product.ID(), existing.ID(), index)
	}
	if err := product.Validate(); err != nil {
		return err
	}
	parts := product.AssociatedParts()
	if err := s.addMissingParts(parts); err != nil {
		return err
	}
	if existing != product {
		if err := existing.ApplyValues(product); err != nil {
			return err
		}
		if err := existing.SetAllAssociatedParts(parts); err != nil {
			return err
		}
	}
	s.record(events.ProductUpdatedEvent, events.ProductStream(existing.ID()), events.ProductUpdated{Index: index, Product: existing})
	return nil
}

// addMissingParts stores the parts not yet in the inventory. Nothing is added
// unless all of them are valid.
func (s *Inventory) addMissingParts(parts []*entities.Part) error {
	var missing []*entities.Part
	for _, part := range parts {
		if s.IndexOfPart(part) >= 0 {
			continue
		}
		if err := part.Validate(); err != nil {
			return fmt.Errorf("associated part %q: %w", part.Name(), err)
		}
		missing = append(missing, part)
	}
	for _, part := range missing {
		if err := s.AddPart(part); err != nil {
			return err
		}
	}
	return nil
}

// DeletePart detaches part from every product, then removes it. It reports
// whether the part was in the inventory.
func (s *Inventory) DeletePart(part *entities.Part) bool {
	index := s.IndexOfPart(part)
	if index < 0 {
		return false
	}
	var detached []int
	for _, product := range s.products {
		if product.DeleteAssociatedPart(part) {
			detached = append(detached, product.ID())
		}
	}
	s.parts = append(s.parts[:index:index], s.parts[index+1:]...)
	part.DetachIDGuard()
	s.record(events.PartDeletedEvent, events.PartStream(part.ID()), events.PartDeleted{Index: index, Part: part, DetachedFrom: detached})
	return true
}

// DeleteProduct removes product and leaves its parts alone. It reports
// whether the product was in the inventory.
func (s *Inventory) DeleteProduct(product *entities.Product) bool {
	index := s.IndexOfProduct(product)
	if index < 0 {
		return false
	}
	s.products = append(s.products[:index:index], s.products[index+1:]...)
	product.DetachIDGuard()
	s.record(events.ProductDeletedEvent, events.ProductStream(product.ID()), events.ProductDeleted{Index: index, Product: product})
	return true
}

// AssociatePart links part to product, adding part to the inventory first
// when it is not there yet
func (s *Inventory) AssociatePart(product *entities.Product, part *entities.Part) error {
	if product == nil || part == nil {
		return entities.ErrNilEntity
	}
	if err := s.AddPart(part); err != nil {
		return err
	}
	return product.AddAssociatedPart(part)
}

// AllParts returns a snapshot of the parts in insertion order
func (s *Inventory) AllParts() []*entities.Part {
	parts := make([]*entities.Part, len(s.parts))
	copy(parts, s.parts)
	return parts
}

// AllProducts returns a snapshot of the products in insertion order
func (s *Inventory) AllProducts() []*entities.Product {
	products := make([]*entities.Product, len(s.products))
	copy(products, s.products)
	return products
}

// PartCount returns the number of parts
func (s *Inventory) PartCount() int { return len(s.parts) }

// ProductCount returns the number of products
func (s *Inventory) ProductCount() int { return len(s.products) }

// IndexOfPart returns the position of part itself, or -1
func (s *Inventory) IndexOfPart(part *entities.Part) int {
	if part == nil {
		return -1
	}
	for i, p := range s.parts {
		if p == part {
			return i
		}
	}
	return -1
}

// IndexOfProduct returns the position of product itself, or -1
func (s *Inventory) IndexOfProduct(product *entities.Product) int {
	if product == nil {
		return -1
	}
	for i, p := range s.products {
		if p == product {
			return i
		}
	}
	return -1
}

// ContainsPart reports whether part itself is in the inventory
func (s *Inventory) ContainsPart(part *entities.Part) bool { return s.IndexOfPart(part) >= 0 }

// ContainsProduct reports whether product itself is in the inventory
func (s *Inventory) ContainsProduct(product *entities.Product) bool {
	return s.IndexOfProduct(product) >= 0
}

// LookupPart returns the first part with id
func (s *Inventory) LookupPart(id int) (*entities.Part, bool) {
	for _, p := range s.parts {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// LookupProduct returns the first product with id
func (s *Inventory) LookupProduct(id int) (*entities.Product, bool) {
	for _, p := range s.products {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// LookupPartByName returns the first part whose name matches, ignoring case
// and surrounding whitespace. A blank name finds nothing.
func (s *Inventory) LookupPartByName(name string) (*entities.Part, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	for _, p := range s.parts {
		if strings.EqualFold(p.Name(), name) {
			return p, true
		}
	}
	return nil, false
}

// LookupProductByName returns the first product whose name matches, ignoring
// case and surrounding whitespace. A blank name finds nothing.
func (s *Inventory) LookupProductByName(name string) (*entities.Product, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	for _, p := range s.products {
		if strings.EqualFold(p.Name(), name) {
			return p, true
		}
	}
	return nil, false
}

// SearchParts returns the parts whose name contains text, ignoring case
func (s *Inventory) SearchParts(text string) []*entities.Part {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	var result []*entities.Part
	for _, p := range s.parts {
		if strings.Contains(strings.ToLower(p.Name()), text) {
			result = append(result, p)
		}
	}
	return result
}

// SearchProducts returns the products whose name contains text, ignoring case
func (s *Inventory) SearchProducts(text string) []*entities.Product {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	var result []*entities.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name()), text) {
			result = append(result, p)
		}
	}
	return result
}
