package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/ims/pkg/application/dto"
	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/domain/repositories"
	domainservices "github.com/vsinha/ims/pkg/domain/services"
)

// ProductEditor saves the product edit form into the inventory
type ProductEditor struct {
	inventory repositories.InventoryRepository
	prompter  Prompter
	logger    *zap.Logger
}

// NewProductEditor creates a product editor. A nil logger discards output.
func NewProductEditor(inventory repositories.InventoryRepository, prompter Prompter, logger *zap.Logger) *ProductEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductEditor{
		inventory: inventory,
		prompter:  prompter,
		logger:    logger.Named("product-editor"),
	}
}

// Save parses form and adds a new product or updates the one with form.ID.
// The associated parts are looked up by id in the inventory. A product with
// no parts, or whose parts cost more than the product, needs confirmation;
// a declined confirmation returns ErrCancelled.
func (e *ProductEditor) Save(form dto.ProductForm) (*entities.Product, error) {
	var existing *entities.Product
	if !form.IsNew() {
		product, ok := e.inventory.LookupProduct(form.ID)
		if !ok {
			return nil, fmt.Errorf("product %d: %w", form.ID, entities.ErrNotFound)
		}
		existing = product
	}

	report := &ValidationReport{}
	fields, _ := report.parseStockFields(form.Name, form.Price, form.Stock, form.Min, form.Max)
	parts := make([]*entities.Part, 0, len(form.PartIDs))
	for _, id := range form.PartIDs {
		part, ok := e.inventory.LookupPart(id)
		if !ok {
			report.Add(dto.LabelParts, fmt.Sprintf("Part %d does not exist", id))
			continue
		}
		parts = append(parts, part)
	}
	if err := report.Err(); err != nil {
		e.logger.Debug("product form rejected", zap.Int("id", form.ID), zap.Strings("errors", report.Messages()))
		return nil, err
	}

	id := form.ID
	if form.IsNew() {
		id = entities.UnassignedID
	}
	candidate, err := entities.NewProduct(id, fields.name, fields.price, fields.stock, fields.min, fields.max)
	if err != nil {
		report.AddError(labelFor(err, dto.LabelName), err)
		return nil, report.Err()
	}
	if err := candidate.SetAllAssociatedParts(parts); err != nil {
		return nil, err
	}

	if err := e.confirmSoftConstraints(candidate); err != nil {
		return nil, err
	}

	if existing == nil {
		if err := e.inventory.AddProduct(candidate); err != nil {
			return nil, fmt.Errorf("failed to add product: %w", err)
		}
		e.logger.Info("product added", zap.Int("id", candidate.ID()), zap.String("name", candidate.Name()),
			zap.Int("parts", candidate.AssociatedPartCount()))
		return candidate, nil
	}

	index := e.inventory.IndexOfProduct(existing)
	if err := e.inventory.UpdateProduct(index, candidate); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", existing.ID(), err)
	}
	e.logger.Info("product updated", zap.Int("id", existing.ID()), zap.String("name", existing.Name()),
		zap.Int("parts", existing.AssociatedPartCount()))
	return existing, nil
}

func (e *ProductEditor) confirmSoftConstraints(product *entities.Product) error {
	header := fmt.Sprintf("Save Product %q", product.Name())
	if product.AssociatedPartCount() == 0 {
		answer := e.prompter.Confirm(Prompt{
			Title:   "Minimum part constraint",
			Header:  header,
			Message: "A product should have at least one part.\n\nSave it without parts?",
		})
		if answer != Yes {
			return ErrCancelled
		}
	}
	if domainservices.ExceedsPrice(product) {
		sum := domainservices.PriceSum(product.AssociatedParts())
		answer := e.prompter.Confirm(Prompt{
			Title:  "Price constraint",
			Header: header,
			Message: fmt.Sprintf("The parts of this product cost %s, which is more than its price of %s.\n\nSave it anyway?",
				sum.StringFixed(2), product.Price().StringFixed(2)),
		})
		if answer != Yes {
			return ErrCancelled
		}
	}
	return nil
}
