package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/domain/repositories"
	domainservices "github.com/vsinha/ims/pkg/domain/services"
)

// ErrEmptySearch is returned when a search is run without text
var ErrEmptySearch = errors.New("enter a name to search for")

const deleteWarning = "This action cannot be undone!\n\nAre you sure you want to delete this %s?"

// InventoryScreen carries out the delete and search actions of the main screen
type InventoryScreen struct {
	inventory repositories.InventoryRepository
	prompter  Prompter
	logger    *zap.Logger
}

// NewInventoryScreen creates the main screen actions. A nil logger discards output.
func NewInventoryScreen(inventory repositories.InventoryRepository, prompter Prompter, logger *zap.Logger) *InventoryScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryScreen{
		inventory: inventory,
		prompter:  prompter,
		logger:    logger.Named("inventory-screen"),
	}
}

// DeletePart removes the part with id after confirmation. When the part is the
// last part of some product that is called out first; either declined prompt
// returns ErrCancelled.
func (s *InventoryScreen) DeletePart(id int) error {
	part, ok := s.inventory.LookupPart(id)
	if !ok {
		return fmt.Errorf("part %d: %w", id, entities.ErrNotFound)
	}
	header := fmt.Sprintf("Delete Part %q", part.Name())

	if last := domainservices.WhereLastAssociatedProduct(s.inventory, id); len(last) > 0 {
		answer := s.prompter.Confirm(Prompt{
			Title:   "Minimum part constraint",
			Header:  header,
			Message: "Removing this part would remove the last part from " + productList(last) + "\n\nDelete it anyway?",
		})
		if answer != Yes {
			s.logger.Debug("part delete declined", zap.Int("id", id), zap.Int("emptied_products", len(last)))
			return ErrCancelled
		}
	}

	message := fmt.Sprintf(deleteWarning, "part")
	switch count := len(domainservices.AssociatedProducts(s.inventory, id)); count {
	case 0:
	case 1:
		message = "1 product references this part, and it will be deleted from that one as well.\n" + message
	default:
		message = fmt.Sprintf("%d products reference this part, and it will be deleted from those as well.\n", count) + message
	}
	if s.prompter.Confirm(Prompt{Title: "Confirm Delete", Header: header, Message: message}) != Yes {
		s.logger.Debug("part delete declined", zap.Int("id", id))
		return ErrCancelled
	}

	s.inventory.DeletePart(part)
	s.logger.Info("part deleted", zap.Int("id", id), zap.String("name", part.Name()))
	return nil
}

// DeleteProduct removes the product with id after confirmation. If some of its
// parts belong to no other product, the user chooses whether to delete them
// too (Yes), keep them (No), or abandon the delete (Cancel). It returns the
// parts deleted along with the product.
func (s *InventoryScreen) DeleteProduct(id int) ([]*entities.Part, error) {
	product, ok := s.inventory.LookupProduct(id)
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, entities.ErrNotFound)
	}
	header := fmt.Sprintf("Delete Product %q", product.Name())

	if s.prompter.Confirm(Prompt{Title: "Confirm Delete", Header: header, Message: fmt.Sprintf(deleteWarning, "product")}) != Yes {
		s.logger.Debug("product delete declined", zap.Int("id", id))
		return nil, ErrCancelled
	}

	var deleted []*entities.Part
	if orphans := domainservices.PartsOrphanedBy(s.inventory, product); len(orphans) > 0 {
		count := "1 part"
		if len(orphans) > 1 {
			count = fmt.Sprintf("%d parts", len(orphans))
		}
		answer := s.prompter.Confirm(Prompt{
			Title:       "Confirm Delete",
			Header:      header,
			Message:     count + " will not belong to any product after this product is deleted.\nDo you want to delete those parts as well?",
			AllowCancel: true,
		})
		switch answer {
		case Yes:
			for _, part := range orphans {
				if s.inventory.DeletePart(part) {
					deleted = append(deleted, part)
				}
			}
		case No:
		default:
			s.logger.Debug("product delete cancelled", zap.Int("id", id))
			return nil, ErrCancelled
		}
	}

	s.inventory.DeleteProduct(product)
	s.logger.Info("product deleted", zap.Int("id", id), zap.String("name", product.Name()),
		zap.Int("parts_deleted", len(deleted)))
	return deleted, nil
}

// SearchParts returns the parts whose name contains text, ignoring case
func (s *InventoryScreen) SearchParts(text string) ([]*entities.Part, error) {
	if isBlank(text) {
		return nil, ErrEmptySearch
	}
	parts := s.inventory.SearchParts(text)
	s.logger.Debug("part search", zap.String("text", text), zap.Int("matches", len(parts)))
	return parts, nil
}

// SearchProducts returns the products whose name contains text, ignoring case
func (s *InventoryScreen) SearchProducts(text string) ([]*entities.Product, error) {
	if isBlank(text) {
		return nil, ErrEmptySearch
	}
	products := s.inventory.SearchProducts(text)
	s.logger.Debug("product search", zap.String("text", text), zap.Int("matches", len(products)))
	return products, nil
}
