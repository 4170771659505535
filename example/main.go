package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/domain/events"
	"github.com/vsinha/ims/pkg/domain/services"
	"github.com/vsinha/ims/pkg/infrastructure/repositories/memory"
)

func main() {
	// Create the inventory
	inv := memory.NewInventory()

	// Set up a bicycle with two parts
	bike, err := setupBike(inv)
	if err != nil {
		fmt.Printf("❌ Setup failed: %v\n", err)
		return
	}

	fmt.Println("🚲 Inventory:")
	for _, part := range inv.AllParts() {
		fmt.Printf("  %s: %s\n", part, part.Price().StringFixed(2))
	}
	fmt.Printf("  %s: %s (parts %s)\n", bike, bike.Price().StringFixed(2),
		services.PriceSum(bike.AssociatedParts()).StringFixed(2))
	fmt.Println()

	// Watch the wheel for changes
	wheel, _ := inv.LookupPartByName("wheel")
	_ = wheel.SubscribeAll(func(c events.Change) {
		fmt.Printf("  🔔 %s changed from %v to %v\n", c.Field, c.Old, c.New)
	})

	// Preview a price increase before committing it
	newPrice := decimal.NewFromInt(55)
	fmt.Printf("💲 Raising the wheel to %s...\n", newPrice.StringFixed(2))
	if violations := services.PotentialPriceSumViolations(inv, wheel.ID(), newPrice); len(violations) > 0 {
		for _, product := range violations {
			fmt.Printf("  ⚠️  %s would cost less than its parts\n", product.Name())
		}
	}
	if err := wheel.SetPrice(newPrice); err != nil {
		fmt.Printf("❌ Price change failed: %v\n", err)
		return
	}
	fmt.Printf("  %s over budget: %v\n", bike.Name(), services.ExceedsPrice(bike))
	fmt.Println()

	// Buy the wheel in instead of making it; the bike follows the new part
	fmt.Println("🔁 Outsourcing the wheel...")
	bought, err := entities.NewOutsourced(wheel.ID(), wheel.Name(), decimal.NewFromInt(30),
		wheel.Stock(), wheel.Min(), wheel.Max(), "Wheels Inc")
	if err != nil {
		fmt.Printf("❌ Failed to build part: %v\n", err)
		return
	}
	if err := inv.UpdatePart(inv.IndexOfPart(wheel), bought); err != nil {
		fmt.Printf("❌ Update failed: %v\n", err)
		return
	}
	fmt.Printf("  Bike now holds %s from %s\n", bike.AssociatedParts()[0], bike.AssociatedParts()[0].CompanyName())
	fmt.Println()

	// Deleting a part detaches it from every product
	frame, _ := inv.LookupPartByName("frame")
	fmt.Printf("🗑️  Deleting %s (used by %d product)\n", frame.Name(), len(services.AssociatedProducts(inv, frame.ID())))
	inv.DeletePart(frame)
	fmt.Printf("  Bike parts left: %d\n", bike.AssociatedPartCount())
	fmt.Println()

	fmt.Printf("✅ Done, %d inventory events recorded\n", inv.Journal().Position())
}

func setupBike(inv *memory.Inventory) (*entities.Product, error) {
	wheel, err := entities.NewInHouse(entities.UnassignedID, "Wheel", decimal.NewFromInt(40), 10, 2, 40, 7)
	if err != nil {
		return nil, err
	}
	frame, err := entities.NewOutsourced(entities.UnassignedID, "Frame", decimal.NewFromInt(50), 4, 1, 10, "Frame Co")
	if err != nil {
		return nil, err
	}

	bike, err := entities.NewProduct(entities.UnassignedID, "Bike", decimal.NewFromInt(100), 3, 1, 10)
	if err != nil {
		return nil, err
	}
	for _, part := range []*entities.Part{wheel, frame} {
		if err := inv.AssociatePart(bike, part); err != nil {
			return nil, err
		}
	}
	return bike, inv.AddProduct(bike)
}
