package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/domain/repositories"
)

// PriceSum totals the prices of parts
func PriceSum(parts []*entities.Part) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p.Price())
	}
	return sum
}

// PriceSumExcluding totals the prices of every part whose id is not
// excludedPartID, plus candidatePrice. It previews a price edit before it is
// committed.
func PriceSumExcluding(excludedPartID int, candidatePrice decimal.Decimal, parts []*entities.Part) decimal.Decimal {
	sum := candidatePrice
	for _, p := range parts {
		if p.ID() != excludedPartID {
			sum = sum.Add(p.Price())
		}
	}
	return sum
}

// ExceedsPrice reports whether a product's associated parts cost more than the product
func ExceedsPrice(product *entities.Product) bool {
	return PriceSum(product.AssociatedParts()).GreaterThan(product.Price())
}

// AssociatedProducts returns the products that contain the part with partID
func AssociatedProducts(inv repositories.InventoryReader, partID int) []*entities.Product {
	var result []*entities.Product
	for _, product := range inv.AllProducts() {
		if _, ok := product.LookupAssociatedPart(partID); ok {
			result = append(result, product)
		}
	}
	return result
}

// PotentialPriceSumViolations returns the products containing partID whose
// associated-part price sum would exceed the product price if that part cost
// newPrice.
func PotentialPriceSumViolations(inv repositories.InventoryReader, partID int, newPrice decimal.Decimal) []*entities.Product {
	var result []*entities.Product
	for _, product := range inv.AllProducts() {
		if _, ok := product.LookupAssociatedPart(partID); !ok {
			continue
		}
		if PriceSumExcluding(partID, newPrice, product.AssociatedParts()).GreaterThan(product.Price()) {
			result = append(result, product)
		}
	}
	return result
}

// WhereLastAssociatedProduct returns the products whose only associated part
// has partID, i.e. the products left without parts if it were deleted.
func WhereLastAssociatedProduct(inv repositories.InventoryReader, partID int) []*entities.Product {
	var result []*entities.Product
	for _, product := range inv.AllProducts() {
		parts := product.AssociatedParts()
		if len(parts) == 1 && parts[0].ID() == partID {
			result = append(result, product)
		}
	}
	return result
}

// PartsOrphanedBy returns the parts of product that no other product references
func PartsOrphanedBy(inv repositories.InventoryReader, product *entities.Product) []*entities.Part {
	if product == nil {
		return nil
	}
	products := inv.AllProducts()
	var orphans []*entities.Part
	for _, part := range product.AssociatedParts() {
		shared := false
		for _, other := range products {
			if other != product && other.ContainsAssociatedPart(part) {
				shared = true
				break
			}
		}
		if !shared {
			orphans = append(orphans, part)
		}
	}
	return orphans
}
