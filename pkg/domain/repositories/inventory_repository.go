package repositories

import "github.com/vsinha/ims/pkg/domain/entities"

// InventoryReader provides read access to the part and product collections
type InventoryReader interface {
	// AllParts and AllProducts return snapshots in collection order.
	AllParts() []*entities.Part
	AllProducts() []*entities.Product

	LookupPart(id int) (*entities.Part, bool)
	LookupProduct(id int) (*entities.Product, bool)
	LookupPartByName(name string) (*entities.Part, bool)
	LookupProductByName(name string) (*entities.Product, bool)

	SearchParts(text string) []*entities.Part
	SearchProducts(text string) []*entities.Product

	IndexOfPart(part *entities.Part) int
	IndexOfProduct(product *entities.Product) int
}

// InventoryRepository is the authoritative store of parts and products
type InventoryRepository interface {
	InventoryReader

	AddPart(part *entities.Part) error
	// AddProduct and UpdateProduct store any associated part not yet in the inventory.
	AddProduct(product *entities.Product) error
	UpdatePart(index int, part *entities.Part) error
	UpdateProduct(index int, product *entities.Product) error
	DeletePart(part *entities.Part) bool
	DeleteProduct(product *entities.Product) bool

	// AssociatePart links part to product, adding part to the inventory first if needed.
	AssociatePart(product *entities.Product, part *entities.Part) error
}
