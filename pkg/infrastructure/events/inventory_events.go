package events

import (
	"fmt"

	"github.com/vsinha/ims/pkg/domain/entities"
)

const (
	PartAddedEvent    = "part.added"
	PartUpdatedEvent  = "part.updated"
	PartReplacedEvent = "part.replaced"
	PartDeletedEvent  = "part.deleted"

	ProductAddedEvent   = "product.added"
	ProductUpdatedEvent = "product.updated"
	ProductDeletedEvent = "product.deleted"
)

// AllInventoryEvents lists every event type the inventory journals
var AllInventoryEvents = []string{
	PartAddedEvent,
	PartUpdatedEvent,
	PartReplacedEvent,
	PartDeletedEvent,
	ProductAddedEvent,
	ProductUpdatedEvent,
	ProductDeletedEvent,
}

// PartStream names the stream holding a part's events
func PartStream(id int) string {
	return fmt.Sprintf("part-%d", id)
}

// ProductStream names the stream holding a product's events
func ProductStream(id int) string {
	return fmt.Sprintf("product-%d", id)
}

type PartAdded struct {
	Index int            `json:"index"`
	Part  *entities.Part `json:"-"`
}

type PartUpdated struct {
	Index int            `json:"index"`
	Part  *entities.Part `json:"-"`
}

// PartReplaced is journaled when an update changes a part's kind and the
// stored instance is swapped for a new one.
type PartReplaced struct {
	Index            int            `json:"index"`
	OldPart          *entities.Part `json:"-"`
	NewPart          *entities.Part `json:"-"`
	RelinkedProducts []int          `json:"relinked_products"`
}

type PartDeleted struct {
	Index        int            `json:"index"`
	Part         *entities.Part `json:"-"`
	DetachedFrom []int          `json:"detached_from"`
}

type ProductAdded struct {
	Index   int               `json:"index"`
	Product *entities.Product `json:"-"`
}

type ProductUpdated struct {
	Index   int               `json:"index"`
	Product *entities.Product `json:"-"`
}

type ProductDeleted struct {
	Index   int               `json:"index"`
	Product *entities.Product `json:"-"`
}
