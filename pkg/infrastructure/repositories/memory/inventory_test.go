package memory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/domain/services"
	"github.com/vsinha/ims/pkg/infrastructure/events"
)

func inHouse(t *testing.T, id int, name string, price string) *entities.Part {
	t.Helper()
	p, err := entities.NewInHouse(id, name, decimal.RequireFromString(price), 5, 1, 10, 1)
	require.NoError(t, err)
	return p
}

func outsourced(t *testing.T, id int, name string, price string) *entities.Part {
	t.Helper()
	p, err := entities.NewOutsourced(id, name, decimal.RequireFromString(price), 5, 1, 10, "Acme")
	require.NoError(t, err)
	return p
}

func product(t *testing.T, id int, name string, price string) *entities.Product {
	t.Helper()
	p, err := entities.NewProduct(id, name, decimal.RequireFromString(price), 5, 1, 10)
	require.NoError(t, err)
	return p
}

func TestInventory_AddPartAssignsLowestFreeID(t *testing.T) {
	inv := NewInventory()

	a := inHouse(t, entities.UnassignedID, "A", "1")
	require.NoError(t, inv.AddPart(a))
	assert.Equal(t, 0, a.ID())

	c := inHouse(t, 2, "C", "1")
	require.NoError(t, inv.AddPart(c))
	assert.Equal(t, 2, c.ID())

	b := inHouse(t, 2, "B", "1")
	require.NoError(t, inv.AddPart(b))
	assert.Equal(t, 1, b.ID(), "taken id should be replaced with the lowest free id")

	d := inHouse(t, entities.UnassignedID, "D", "1")
	require.NoError(t, inv.AddPart(d))
	assert.Equal(t, 3, d.ID())

	require.NoError(t, inv.AddPart(a))
	assert.Equal(t, 4, inv.PartCount(), "re-adding a member is a no-op")
}

func TestInventory_AddRejectsNilAndInvalid(t *testing.T) {
	inv := NewInventory()

	assert.ErrorIs(t, inv.AddPart(nil), entities.ErrNilEntity)
	assert.ErrorIs(t, inv.AddProduct(nil), entities.ErrNilEntity)
	assert.Zero(t, inv.PartCount())
	assert.Zero(t, inv.ProductCount())
}

func TestInventory_IDGuardRejectsDuplicates(t *testing.T) {
	inv := NewInventory()
	a := inHouse(t, 0, "A", "1")
	b := inHouse(t, 1, "B", "1")
	require.NoError(t, inv.AddPart(a))
	require.NoError(t, inv.AddPart(b))

	err := b.SetID(0)
	var dup *entities.DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Key Already Exists: 0", err.Error())
	assert.Equal(t, 1, b.ID())

	require.NoError(t, b.SetID(7))
	assert.Equal(t, 7, b.ID())

	require.True(t, inv.DeletePart(b))
	assert.NoError(t, b.SetID(0), "a removed part is no longer guarded")
}

func TestInventory_ProductIDGuard(t *testing.T) {
	inv := NewInventory()
	p1 := product(t, 0, "P1", "10")
	p2 := product(t, entities.UnassignedID, "P2", "10")
	require.NoError(t, inv.AddProduct(p1))
	require.NoError(t, inv.AddProduct(p2))
	assert.Equal(t, 1, p2.ID())

	var dup *entities.DuplicateKeyError
	assert.True(t, errors.As(p2.SetID(0), &dup))
}

func TestInventory_Lookups(t *testing.T) {
	inv := NewInventory()
	wheel := inHouse(t, 0, "Wheel", "1")
	spoke := inHouse(t, 1, "Wheel Spoke", "1")
	bell := outsourced(t, 2, "Bell", "1")
	for _, p := range []*entities.Part{wheel, spoke, bell} {
		require.NoError(t, inv.AddPart(p))
	}

	found, ok := inv.LookupPart(1)
	require.True(t, ok)
	assert.Same(t, spoke, found)

	_, ok = inv.LookupPart(9)
	assert.False(t, ok)

	found, ok = inv.LookupPartByName("  wheel ")
	require.True(t, ok)
	assert.Same(t, wheel, found)

	_, ok = inv.LookupPartByName("  ")
	assert.False(t, ok)

	assert.Equal(t, []*entities.Part{wheel, spoke}, inv.SearchParts("WHEEL"))
	assert.Empty(t, inv.SearchParts(""))
	assert.Empty(t, inv.SearchParts("horn"))

	assert.Equal(t, 2, inv.IndexOfPart(bell))
	assert.Equal(t, -1, inv.IndexOfPart(inHouse(t, 2, "Bell", "1")), "index is by identity")
}

func TestInventory_ProductLookups(t *testing.T) {
	inv := NewInventory()
	bike := product(t, 0, "Bike", "100")
	trike := product(t, 1, "Trike", "100")
	require.NoError(t, inv.AddProduct(bike))
	require.NoError(t, inv.AddProduct(trike))

	found, ok := inv.LookupProduct(1)
	require.True(t, ok)
	assert.Same(t, trike, found)

	found, ok = inv.LookupProductByName("BIKE")
	require.True(t, ok)
	assert.Same(t, bike, found)

	assert.Equal(t, []*entities.Product{bike, trike}, inv.SearchProducts("ike"))
	assert.True(t, inv.ContainsProduct(bike))
}

func TestInventory_UpdatePartSameKindUpdatesInPlace(t *testing.T) {
	inv := NewInventory()
	gear := inHouse(t, 0, "Gear", "2")
	require.NoError(t, inv.AddPart(gear))
	bike := product(t, 0, "Bike", "100")
	require.NoError(t, inv.AssociatePart(bike, gear))
	require.NoError(t, inv.AddProduct(bike))

	edited := inHouse(t, 0, "Big Gear", "3")
	require.NoError(t, inv.UpdatePart(0, edited))

	assert.Same(t, gear, inv.AllParts()[0], "slot keeps the canonical instance")
	assert.Equal(t, "Big Gear", gear.Name())
	assert.True(t, gear.Price().Equal(decimal.NewFromInt(3)))
	assert.True(t, bike.ContainsAssociatedPart(gear))
}

func TestInventory_UpdatePartKindChangeRelinksProducts(t *testing.T) {
	inv := NewInventory()
	first := inHouse(t, 0, "First", "1")
	gear := inHouse(t, 1, "Gear", "2")
	last := inHouse(t, 2, "Last", "1")
	bike := product(t, 0, "Bike", "100")
	for _, p := range []*entities.Part{first, gear, last} {
		require.NoError(t, inv.AssociatePart(bike, p))
	}
	require.NoError(t, inv.AddProduct(bike))

	var replaced []events.PartReplaced
	handler := events.NewHandlerFunc(func(e events.Event) error {
		replaced = append(replaced, e.Data().(events.PartReplaced))
		return nil
	}, events.PartReplacedEvent)
	require.NoError(t, inv.Subscribe([]string{events.PartReplacedEvent}, handler))

	bought := outsourced(t, 1, "Gear", "2")
	require.NoError(t, inv.UpdatePart(1, bought))

	assert.Same(t, bought, inv.AllParts()[1])
	assert.Equal(t, []*entities.Part{first, bought, last}, bike.AssociatedParts(), "relinked at the same position")
	assert.False(t, bike.ContainsAssociatedPart(gear))

	require.Len(t, replaced, 1)
	assert.Equal(t, []int{0}, replaced[0].RelinkedProducts)
	assert.Same(t, gear, replaced[0].OldPart)

	var dup *entities.DuplicateKeyError
	assert.True(t, errors.As(bought.SetID(0), &dup), "replacement is guarded by the store")
	assert.NoError(t, gear.SetID(0), "replaced instance is released")
}

func TestInventory_UpdatePartErrors(t *testing.T) {
	inv := NewInventory()
	gear := inHouse(t, 0, "Gear", "2")
	require.NoError(t, inv.AddPart(gear))

	assert.ErrorIs(t, inv.UpdatePart(0, nil), entities.ErrNilEntity)
	assert.ErrorIs(t, inv.UpdatePart(3, inHouse(t, 0, "Gear", "2")), entities.ErrInvalidParameter)
	assert.ErrorIs(t, inv.UpdatePart(-1, inHouse(t, 0, "Gear", "2")), entities.ErrInvalidParameter)
	assert.ErrorIs(t, inv.UpdatePart(0, inHouse(t, 4, "Gear", "2")), entities.ErrInvalidParameter)
	assert.Equal(t, "Gear", gear.Name())
}

func TestInventory_UpdateProductAddsMissingParts(t *testing.T) {
	inv := NewInventory()
	bike := product(t, 0, "Bike", "100")
	require.NoError(t, inv.AddProduct(bike))

	bell := outsourced(t, entities.UnassignedID, "Bell", "3")
	edited := bike.Clone()
	require.NoError(t, edited.SetName("Road Bike"))
	require.NoError(t, edited.AddAssociatedPart(bell))

	require.NoError(t, inv.UpdateProduct(0, edited))

	assert.Same(t, bike, inv.AllProducts()[0])
	assert.Equal(t, "Road Bike", bike.Name())
	assert.True(t, inv.ContainsPart(bell))
	assert.Equal(t, 0, bell.ID())
	assert.Equal(t, []*entities.Part{bell}, bike.AssociatedParts())
}

func TestInventory_AddProductAddsMissingParts(t *testing.T) {
	inv := NewInventory()
	stored := inHouse(t, 0, "Stored", "4")
	require.NoError(t, inv.AddPart(stored))

	loose := outsourced(t, 0, "Loose", "6")
	kit := product(t, entities.UnassignedID, "Kit", "20")
	require.NoError(t, kit.AddAssociatedPart(loose))
	require.NoError(t, inv.AddProduct(kit))

	assert.True(t, inv.ContainsPart(loose))
	assert.Equal(t, 1, loose.ID(), "a taken id is replaced when the part is stored")
	assert.Empty(t, services.AssociatedProducts(inv, stored.ID()))
	assert.Empty(t, services.WhereLastAssociatedProduct(inv, stored.ID()))

	require.True(t, inv.DeletePart(loose))
	assert.Zero(t, kit.AssociatedPartCount())
}

func TestInventory_UpdateProductErrors(t *testing.T) {
	inv := NewInventory()
	bike := product(t, 0, "Bike", "100")
	require.NoError(t, inv.AddProduct(bike))

	assert.ErrorIs(t, inv.UpdateProduct(0, nil), entities.ErrNilEntity)
	assert.ErrorIs(t, inv.UpdateProduct(1, product(t, 0, "Bike", "100")), entities.ErrInvalidParameter)
	assert.ErrorIs(t, inv.UpdateProduct(0, product(t, 5, "Bike", "100")), entities.ErrInvalidParameter)
}

func TestInventory_DeletePartDetachesFromProducts(t *testing.T) {
	inv := NewInventory()
	gear := inHouse(t, 0, "Gear", "2")
	chain := inHouse(t, 1, "Chain", "2")
	bike := product(t, 0, "Bike", "100")
	trike := product(t, 1, "Trike", "100")
	require.NoError(t, inv.AssociatePart(bike, gear))
	require.NoError(t, inv.AssociatePart(bike, chain))
	require.NoError(t, inv.AssociatePart(trike, gear))
	require.NoError(t, inv.AddProduct(bike))
	require.NoError(t, inv.AddProduct(trike))

	var deleted []events.PartDeleted
	require.NoError(t, inv.Subscribe([]string{events.PartDeletedEvent}, events.NewHandlerFunc(func(e events.Event) error {
		deleted = append(deleted, e.Data().(events.PartDeleted))
		return nil
	}, events.PartDeletedEvent)))

	assert.True(t, inv.DeletePart(gear))
	assert.False(t, inv.DeletePart(gear))

	assert.Equal(t, []*entities.Part{chain}, inv.AllParts())
	assert.Equal(t, []*entities.Part{chain}, bike.AssociatedParts())
	assert.Empty(t, trike.AssociatedParts())

	require.Len(t, deleted, 1)
	assert.Equal(t, 0, deleted[0].Index)
	assert.Equal(t, []int{0, 1}, deleted[0].DetachedFrom)
}

func TestInventory_DeleteProductKeepsParts(t *testing.T) {
	inv := NewInventory()
	gear := inHouse(t, 0, "Gear", "2")
	bike := product(t, 0, "Bike", "100")
	require.NoError(t, inv.AssociatePart(bike, gear))
	require.NoError(t, inv.AddProduct(bike))

	assert.True(t, inv.DeleteProduct(bike))
	assert.False(t, inv.DeleteProduct(bike))
	assert.Zero(t, inv.ProductCount())
	assert.True(t, inv.ContainsPart(gear))
}

func TestInventory_AssociatePartAddsToInventory(t *testing.T) {
	inv := NewInventory()
	bike := product(t, 0, "Bike", "100")
	gear := inHouse(t, entities.UnassignedID, "Gear", "2")

	require.NoError(t, inv.AssociatePart(bike, gear))
	require.NoError(t, inv.AssociatePart(bike, gear))

	assert.True(t, inv.ContainsPart(gear))
	assert.Equal(t, 1, bike.AssociatedPartCount())
	assert.ErrorIs(t, inv.AssociatePart(nil, gear), entities.ErrNilEntity)
}

func TestInventory_JournalRecordsChanges(t *testing.T) {
	inv := NewInventory()
	gear := inHouse(t, 0, "Gear", "2")
	bike := product(t, 0, "Bike", "100")
	require.NoError(t, inv.AddPart(gear))
	require.NoError(t, inv.AddProduct(bike))
	require.NoError(t, inv.UpdatePart(0, inHouse(t, 0, "Gear", "4")))
	inv.DeleteProduct(bike)

	all, err := inv.Journal().ReadAllEvents(0)
	require.NoError(t, err)
	var types []string
	for _, e := range all {
		types = append(types, e.Type())
	}
	assert.Equal(t, []string{
		events.PartAddedEvent,
		events.ProductAddedEvent,
		events.PartUpdatedEvent,
		events.ProductDeletedEvent,
	}, types)

	stream, err := inv.Journal().ReadEvents(events.PartStream(0), 0)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 2, stream[1].Version())
}
