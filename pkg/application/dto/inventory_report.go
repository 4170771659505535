package dto

import (
	"strings"

	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/domain/services"
)

// PartView is a flat, serializable row describing a part
type PartView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Kind        string `json:"kind"`
	MachineID   *int   `json:"machine_id,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// ProductView is a flat, serializable row describing a product
type ProductView struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Stock        int    `json:"stock"`
	Min          int    `json:"min"`
	Max          int    `json:"max"`
	PartIDs      []int  `json:"part_ids"`
	PartsPrice   string `json:"parts_price"`
	ExceedsPrice bool   `json:"exceeds_price"`
}

// InventoryReport is what the command line prints after running its actions
type InventoryReport struct {
	Parts    []PartView    `json:"parts"`
	Products []ProductView `json:"products"`
	Messages []string      `json:"messages,omitempty"`
}

// NewPartView flattens part
func NewPartView(part *entities.Part) PartView {
	view := PartView{
		ID:    part.ID(),
		Name:  part.Name(),
		Price: part.Price().StringFixed(2),
		Stock: part.Stock(),
		Min:   part.Min(),
		Max:   part.Max(),
		Kind:  strings.ToLower(part.Kind().String()),
	}
	switch part.Kind() {
	case entities.InHouse:
		machineID := part.MachineID()
		view.MachineID = &machineID
	case entities.Outsourced:
		view.CompanyName = part.CompanyName()
	}
	return view
}

// NewProductView flattens product
func NewProductView(product *entities.Product) ProductView {
	parts := product.AssociatedParts()
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.ID())
	}
	return ProductView{
		ID:           product.ID(),
		Name:         product.Name(),
		Price:        product.Price().StringFixed(2),
		Stock:        product.Stock(),
		Min:          product.Min(),
		Max:          product.Max(),
		PartIDs:      ids,
		PartsPrice:   services.PriceSum(parts).StringFixed(2),
		ExceedsPrice: services.ExceedsPrice(product),
	}
}

// NewInventoryReport flattens the given parts and products
func NewInventoryReport(parts []*entities.Part, products []*entities.Product) *InventoryReport {
	report := &InventoryReport{
		Parts:    make([]PartView, 0, len(parts)),
		Products: make([]ProductView, 0, len(products)),
	}
	for _, p := range parts {
		report.Parts = append(report.Parts, NewPartView(p))
	}
	for _, p := range products {
		report.Products = append(report.Products, NewProductView(p))
	}
	return report
}

// Snapshot holds the parts and products the command line lists, along with
// the messages of the actions it ran
type Snapshot struct {
	Parts    []*entities.Part
	Products []*entities.Product
	Messages []string
}

// Report flattens the snapshot for printing
func (s Snapshot) Report() *InventoryReport {
	report := NewInventoryReport(s.Parts, s.Products)
	report.Messages = s.Messages
	return report
}
