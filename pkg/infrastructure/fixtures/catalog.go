package fixtures

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/infrastructure/repositories/memory"
)

type partSpec struct {
	name      string
	price     string
	stock     int
	min       int
	max       int
	machineID int
	company   string // empty for in-house parts
}

type productSpec struct {
	name  string
	price string
	stock int
	min   int
	max   int
	parts []string
}

var demoParts = []partSpec{
	{name: "Centipede Head", price: "2.99", stock: 300, min: 50, max: 300, company: "God"},
	{name: "OEM Trunk Segment", price: "1.10", stock: 3000, min: 500, max: 3000, company: "God"},
	{name: "Bionic Trunk Segment", price: "532.50", stock: 296, min: 10, max: 100, company: "Austin Labs"},
	{name: "OEM Centipede Leg", price: "0.10", stock: 30000, min: 5000, max: 30000, company: "God"},
	{name: "Small Prosthetic Arthropod Leg", price: "12.50", stock: 1521, min: 1000, max: 2000, machineID: 1},
	{name: "OEM Centipede Mandible", price: "8.69", stock: 600, min: 100, max: 600, company: "God"},
	{name: "Nervous System Integration Mandible", price: "5999.99", stock: 500, min: 12, max: 400, company: "Spies R Us"},
	{name: "Home Base Communication Antennae", price: "1199.49", stock: 600, min: 300, max: 1400, machineID: 2},
	{name: "Scorpion Head", price: "16.75", stock: 5, min: 12, max: 100, company: "God"},
	{name: "OEM Scorpion Thorax", price: "2.75", stock: 5, min: 12, max: 100, company: "God"},
	{name: "OEM Scorpion Leg", price: "0.93", stock: 5, min: 12, max: 100, company: "God"},
	{name: "Medium Prosthetic Arthropod Leg", price: "18.32", stock: 384, min: 200, max: 800, machineID: 3},
	{name: "OEM Scorpion Stinger", price: "23.33", stock: 5, min: 12, max: 100, company: "God"},
	{name: "Zombie Virus Injection stinger", price: "10445.76", stock: 12, min: 1, max: 50, company: "Spies R Us"},
	{name: "Bionic Arthropod Leg", price: "2593.50", stock: 84, min: 10, max: 50, company: "Austin Labs"},
}

var demoProducts = []productSpec{
	{
		name: "Centipede", price: "25.78", stock: 300, min: 50, max: 300,
		parts: []string{
			"Centipede Head", "OEM Trunk Segment", "Bionic Trunk Segment", "OEM Centipede Leg",
			"Small Prosthetic Arthropod Leg", "OEM Centipede Mandible",
			"Nervous System Integration Mandible", "Home Base Communication Antennae",
		},
	},
	{
		name: "Scorpion", price: "50.27", stock: 5, min: 12, max: 100,
		parts: []string{
			"Scorpion Head", "OEM Scorpion Thorax", "OEM Scorpion Leg", "Medium Prosthetic Arthropod Leg",
			"OEM Scorpion Stinger", "Zombie Virus Injection stinger", "Bionic Arthropod Leg",
			"Home Base Communication Antennae",
		},
	},
	{
		name: "Self-driving i-spyPhone", price: "200000.00", stock: 19, min: 15, max: 200,
		parts: []string{
			"Nervous System Integration Mandible", "OEM Scorpion Stinger", "Zombie Virus Injection stinger",
			"Bionic Arthropod Leg", "Home Base Communication Antennae",
		},
	},
}

// BuildDemoInventory returns an inventory holding the demo catalog: three
// products sharing some of fifteen parts. Ids are assigned from zero in
// listing order.
func BuildDemoInventory() (*memory.Inventory, error) {
	inv := memory.NewInventory()
	if err := LoadDemoCatalog(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// LoadDemoCatalog adds the demo catalog to inv
func LoadDemoCatalog(inv *memory.Inventory) error {
	for _, spec := range demoParts {
		part, err := spec.build()
		if err != nil {
			return fmt.Errorf("demo part %q: %w", spec.name, err)
		}
		if err := inv.AddPart(part); err != nil {
			return fmt.Errorf("demo part %q: %w", spec.name, err)
		}
	}

	for _, spec := range demoProducts {
		product, err := entities.NewProduct(entities.UnassignedID, spec.name, decimal.RequireFromString(spec.price),
			spec.stock, spec.min, spec.max)
		if err != nil {
			return fmt.Errorf("demo product %q: %w", spec.name, err)
		}
		for _, name := range spec.parts {
			part, ok := inv.LookupPartByName(name)
			if !ok {
				return fmt.Errorf("demo product %q: part %q: %w", spec.name, name, entities.ErrNotFound)
			}
			if err := inv.AssociatePart(product, part); err != nil {
				return fmt.Errorf("demo product %q: %w", spec.name, err)
			}
		}
		if err := inv.AddProduct(product); err != nil {
			return fmt.Errorf("demo product %q: %w", spec.name, err)
		}
	}
	return nil
}

func (s partSpec) build() (*entities.Part, error) {
	price := decimal.RequireFromString(s.price)
	if s.company == "" {
		return entities.NewInHouse(entities.UnassignedID, s.name, price, s.stock, s.min, s.max, s.machineID)
	}
	return entities.NewOutsourced(entities.UnassignedID, s.name, price, s.stock, s.min, s.max, s.company)
}
