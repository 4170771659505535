package dto

import (
	"strconv"
	"strings"

	"github.com/vsinha/ims/pkg/domain/entities"
)

// Form field labels, used as the keys of validation messages
const (
	LabelName        = "Name"
	LabelPrice       = "Price/Cost"
	LabelStock       = "Inv"
	LabelMin         = "Min"
	LabelMax         = "Max"
	LabelMachineID   = "Machine ID"
	LabelCompanyName = "Company Name"
	LabelParts       = "Parts"
)

// NewID marks a form that creates an entity rather than editing one
const NewID = entities.UnassignedID

// PartForm holds the raw text of the part edit screen
type PartForm struct {
	ID          int
	Name        string
	Price       string
	Stock       string
	Min         string
	Max         string
	Kind        entities.PartKind
	MachineID   string
	CompanyName string
}

// IsNew reports whether the form creates a part
func (f PartForm) IsNew() bool {
	return f.ID < 0
}

// SourceLabel returns the label of the field that holds the machine id or the company name
func (f PartForm) SourceLabel() string {
	if f.Kind == entities.Outsourced {
		return LabelCompanyName
	}
	return LabelMachineID
}

// PartFormFrom fills a form with the values of an existing part
func PartFormFrom(part *entities.Part) PartForm {
	form := PartForm{
		ID:    part.ID(),
		Name:  part.Name(),
		Price: part.Price().StringFixed(2),
		Stock: strconv.Itoa(part.Stock()),
		Min:   strconv.Itoa(part.Min()),
		Max:   strconv.Itoa(part.Max()),
		Kind:  part.Kind(),
	}
	switch part.Kind() {
	case entities.InHouse:
		form.MachineID = strconv.Itoa(part.MachineID())
	case entities.Outsourced:
		form.CompanyName = part.CompanyName()
	}
	return form
}

// ProductForm holds the raw text of the product edit screen. PartIDs are the
// ids of the parts picked from the inventory, in order.
type ProductForm struct {
	ID      int
	Name    string
	Price   string
	Stock   string
	Min     string
	Max     string
	PartIDs []int
}

// IsNew reports whether the form creates a product
func (f ProductForm) IsNew() bool {
	return f.ID < 0
}

// ProductFormFrom fills a form with the values of an existing product
func ProductFormFrom(product *entities.Product) ProductForm {
	form := ProductForm{
		ID:    product.ID(),
		Name:  product.Name(),
		Price: product.Price().StringFixed(2),
		Stock: strconv.Itoa(product.Stock()),
		Min:   strconv.Itoa(product.Min()),
		Max:   strconv.Itoa(product.Max()),
	}
	for _, part := range product.AssociatedParts() {
		form.PartIDs = append(form.PartIDs, part.ID())
	}
	return form
}

// ParsePartIDs reads a list of part ids separated by ';' or ','
func ParsePartIDs(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
