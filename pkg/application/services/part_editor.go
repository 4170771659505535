package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/ims/pkg/application/dto"
	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/domain/repositories"
	domainservices "github.com/vsinha/ims/pkg/domain/services"
)

// PartEditor saves the part edit form into the inventory
type PartEditor struct {
	inventory repositories.InventoryRepository
	prompter  Prompter
	logger    *zap.Logger
}

// NewPartEditor creates a part editor. A nil logger discards output.
func NewPartEditor(inventory repositories.InventoryRepository, prompter Prompter, logger *zap.Logger) *PartEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartEditor{
		inventory: inventory,
		prompter:  prompter,
		logger:    logger.Named("part-editor"),
	}
}

// Save parses form and adds a new part or updates the one with form.ID.
//
// Every field failure is collected into one error; use FieldErrors to list
// them. Raising the price of a part so that some product's parts would cost
// more than the product asks for confirmation first, and a declined
// confirmation returns ErrCancelled. Changing the kind of an existing part
// replaces it, and the returned part is the instance now stored.
func (e *PartEditor) Save(form dto.PartForm) (*entities.Part, error) {
	var existing *entities.Part
	if !form.IsNew() {
		part, ok := e.inventory.LookupPart(form.ID)
		if !ok {
			return nil, fmt.Errorf("part %d: %w", form.ID, entities.ErrNotFound)
		}
		existing = part
	}

	report := &ValidationReport{}
	fields, _ := report.parseStockFields(form.Name, form.Price, form.Stock, form.Min, form.Max)
	var machineID int
	var companyName string
	switch form.Kind {
	case entities.InHouse:
		machineID, _ = report.parseInt(dto.LabelMachineID, form.MachineID)
	case entities.Outsourced:
		companyName = report.requireText(dto.LabelCompanyName, form.CompanyName)
	default:
		return nil, fmt.Errorf("%w: unknown part kind %d", entities.ErrInvalidParameter, int(form.Kind))
	}
	if err := report.Err(); err != nil {
		e.logger.Debug("part form rejected", zap.Int("id", form.ID), zap.Strings("errors", report.Messages()))
		return nil, err
	}

	if existing != nil && fields.price.GreaterThan(existing.Price()) {
		if err := e.confirmPriceIncrease(existing, fields.price); err != nil {
			return nil, err
		}
	}

	candidate, err := e.buildPart(form, fields, machineID, companyName)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := e.inventory.AddPart(candidate); err != nil {
			return nil, fmt.Errorf("failed to add part: %w", err)
		}
		e.logger.Info("part added", zap.Int("id", candidate.ID()), zap.String("name", candidate.Name()),
			zap.Stringer("kind", candidate.Kind()))
		return candidate, nil
	}

	index := e.inventory.IndexOfPart(existing)
	if err := e.inventory.UpdatePart(index, candidate); err != nil {
		return nil, fmt.Errorf("failed to update part %d: %w", existing.ID(), err)
	}
	if existing.Kind() != candidate.Kind() {
		e.logger.Info("part replaced", zap.Int("id", candidate.ID()),
			zap.Stringer("from", existing.Kind()), zap.Stringer("to", candidate.Kind()))
		return candidate, nil
	}
	e.logger.Info("part updated", zap.Int("id", existing.ID()), zap.String("name", existing.Name()))
	return existing, nil
}

func (e *PartEditor) confirmPriceIncrease(part *entities.Part, newPrice decimal.Decimal) error {
	violations := domainservices.PotentialPriceSumViolations(e.inventory, part.ID(), newPrice)
	if len(violations) == 0 {
		return nil
	}
	answer := e.prompter.Confirm(Prompt{
		Title:  "Price constraint",
		Header: fmt.Sprintf("Modify Part %q", part.Name()),
		Message: "Increasing the price on this part would cause the part sum price to exceed the product price for " +
			productList(violations) + "\n\nSave the new price anyway?",
	})
	e.logger.Debug("price increase confirmation", zap.Int("id", part.ID()),
		zap.Int("violations", len(violations)), zap.Stringer("answer", answer))
	if answer != Yes {
		return ErrCancelled
	}
	return nil
}

func (e *PartEditor) buildPart(form dto.PartForm, f stockFields, machineID int, companyName string) (*entities.Part, error) {
	id := form.ID
	if form.IsNew() {
		id = entities.UnassignedID
	}
	var part *entities.Part
	var err error
	switch form.Kind {
	case entities.InHouse:
		part, err = entities.NewInHouse(id, f.name, f.price, f.stock, f.min, f.max, machineID)
	case entities.Outsourced:
		part, err = entities.NewOutsourced(id, f.name, f.price, f.stock, f.min, f.max, companyName)
	}
	if err != nil {
		report := &ValidationReport{}
		report.AddError(labelFor(err, form.SourceLabel()), err)
		return nil, report.Err()
	}
	return part, nil
}

// labelFor maps the field of a domain validation error to its form label
func labelFor(err error, sourceLabel string) string {
	field := ""
	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		field = verr.Field
	}
	switch field {
	case entities.FieldName:
		return dto.LabelName
	case entities.FieldPrice:
		return dto.LabelPrice
	case entities.FieldStock:
		return dto.LabelStock
	case entities.FieldMin:
		return dto.LabelMin
	case entities.FieldMax:
		return dto.LabelMax
	case entities.FieldCompanyName, entities.FieldMachineID:
		return sourceLabel
	default:
		return dto.LabelName
	}
}
