package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/domain/repositories"
)

var (
	partsHeader    = []string{"id", "name", "price", "stock", "min", "max", "kind", "machine_id", "company_name"}
	productsHeader = []string{"id", "name", "price", "stock", "min", "max", "part_ids"}
)

// PartRow is one line of a parts CSV file. A blank id lets the inventory
// assign one.
type PartRow struct {
	ID          string `csv:"id"`
	Name        string `csv:"name"`
	Price       string `csv:"price"`
	Stock       int    `csv:"stock"`
	Min         int    `csv:"min"`
	Max         int    `csv:"max"`
	Kind        string `csv:"kind"`
	MachineID   string `csv:"machine_id"`
	CompanyName string `csv:"company_name"`
}

// ProductRow is one line of a products CSV file. PartIDs lists the ids used
// in the parts file, separated by ';'.
type ProductRow struct {
	ID      string `csv:"id"`
	Name    string `csv:"name"`
	Price   string `csv:"price"`
	Stock   int    `csv:"stock"`
	Min     int    `csv:"min"`
	Max     int    `csv:"max"`
	PartIDs string `csv:"part_ids"`
}

// Loader reads a seed catalog of parts and products from CSV
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// ReadParts decodes the rows of a parts CSV
func (l *Loader) ReadParts(r io.Reader) ([]*PartRow, error) {
	var rows []*PartRow
	if err := decode(r, "parts", partsHeader, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadProducts decodes the rows of a products CSV
func (l *Loader) ReadProducts(r io.Reader) ([]*ProductRow, error) {
	var rows []*ProductRow
	if err := decode(r, "products", productsHeader, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadCatalog adds the parts and then the products to inv. Products refer to
// parts by the ids in the parts file, even if the inventory had to assign a
// different id. products may be nil.
func (l *Loader) LoadCatalog(inv repositories.InventoryRepository, parts, products io.Reader) error {
	partRows, err := l.ReadParts(parts)
	if err != nil {
		return err
	}

	byFileID := make(map[int]*entities.Part, len(partRows))
	for i, row := range partRows {
		part, err := row.ToPart()
		if err != nil {
			return fmt.Errorf("parts CSV row %d: %w", i+2, err)
		}
		fileID := part.ID()
		if fileID >= 0 {
			if _, dup := byFileID[fileID]; dup {
				return fmt.Errorf("parts CSV row %d: %w", i+2, &entities.DuplicateKeyError{ID: fileID})
			}
		}
		if err := inv.AddPart(part); err != nil {
			return fmt.Errorf("parts CSV row %d: %w", i+2, err)
		}
		if fileID >= 0 {
			byFileID[fileID] = part
		}
	}

	if products == nil {
		return nil
	}
	productRows, err := l.ReadProducts(products)
	if err != nil {
		return err
	}
	productFileIDs := make(map[int]bool, len(productRows))
	for i, row := range productRows {
		product, partIDs, err := row.ToProduct()
		if err != nil {
			return fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		if fileID := product.ID(); fileID >= 0 {
			if productFileIDs[fileID] {
				return fmt.Errorf("products CSV row %d: %w", i+2, &entities.DuplicateKeyError{ID: fileID})
			}
			productFileIDs[fileID] = true
		}
		for _, id := range partIDs {
			part, ok := byFileID[id]
			if !ok {
				return fmt.Errorf("products CSV row %d: unknown part id %d", i+2, id)
			}
			if err := inv.AssociatePart(product, part); err != nil {
				return fmt.Errorf("products CSV row %d: %w", i+2, err)
			}
		}
		if err := inv.AddProduct(product); err != nil {
			return fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
	}
	return nil
}

// LoadCatalogFiles opens the named files and calls LoadCatalog. An empty
// productsFile loads parts only.
func (l *Loader) LoadCatalogFiles(inv repositories.InventoryRepository, partsFile, productsFile string) error {
	parts, err := os.Open(partsFile)
	if err != nil {
		return fmt.Errorf("failed to open parts file %s: %w", partsFile, err)
	}
	defer parts.Close()

	if productsFile == "" {
		return l.LoadCatalog(inv, parts, nil)
	}
	products, err := os.Open(productsFile)
	if err != nil {
		return fmt.Errorf("failed to open products file %s: %w", productsFile, err)
	}
	defer products.Close()

	return l.LoadCatalog(inv, parts, products)
}

// ToPart builds the part a row describes
func (r *PartRow) ToPart() (*entities.Part, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(r.Price)
	if err != nil {
		return nil, err
	}
	kind, err := entities.ParsePartKind(r.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case entities.InHouse:
		machineID, err := strconv.Atoi(strings.TrimSpace(r.MachineID))
		if err != nil {
			return nil, fmt.Errorf("invalid machine_id %q: %w", r.MachineID, err)
		}
		return entities.NewInHouse(id, r.Name, price, r.Stock, r.Min, r.Max, machineID)
	default:
		return entities.NewOutsourced(id, r.Name, price, r.Stock, r.Min, r.Max, r.CompanyName)
	}
}

// ToProduct builds the product a row describes and returns its part ids
func (r *ProductRow) ToProduct() (*entities.Product, []int, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return nil, nil, err
	}
	price, err := parsePrice(r.Price)
	if err != nil {
		return nil, nil, err
	}
	var partIDs []int
	for _, s := range strings.Split(r.PartIDs, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		partID, err := strconv.Atoi(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid part id %q: %w", s, err)
		}
		partIDs = append(partIDs, partID)
	}
	product, err := entities.NewProduct(id, r.Name, price, r.Stock, r.Min, r.Max)
	if err != nil {
		return nil, nil, err
	}
	return product, partIDs, nil
}

// NewPartRow is the inverse of PartRow.ToPart
func NewPartRow(part *entities.Part) *PartRow {
	row := &PartRow{
		ID:    strconv.Itoa(part.ID()),
		Name:  part.Name(),
		Price: part.Price().StringFixed(2),
		Stock: part.Stock(),
		Min:   part.Min(),
		Max:   part.Max(),
		Kind:  strings.ToLower(part.Kind().String()),
	}
	switch part.Kind() {
	case entities.InHouse:
		row.MachineID = strconv.Itoa(part.MachineID())
	case entities.Outsourced:
		row.CompanyName = part.CompanyName()
	}
	return row
}

// NewProductRow is the inverse of ProductRow.ToProduct
func NewProductRow(product *entities.Product) *ProductRow {
	parts := product.AssociatedParts()
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, strconv.Itoa(p.ID()))
	}
	return &ProductRow{
		ID:      strconv.Itoa(product.ID()),
		Name:    product.Name(),
		Price:   product.Price().StringFixed(2),
		Stock:   product.Stock(),
		Min:     product.Min(),
		Max:     product.Max(),
		PartIDs: strings.Join(ids, ";"),
	}
}

// WriteParts writes parts in the format ReadParts accepts
func WriteParts(w io.Writer, parts []*entities.Part) error {
	rows := make([]*PartRow, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, NewPartRow(p))
	}
	return gocsv.Marshal(rows, w)
}

// WriteProducts writes products in the format ReadProducts accepts
func WriteProducts(w io.Writer, products []*entities.Product) error {
	rows := make([]*ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, NewProductRow(p))
	}
	return gocsv.Marshal(rows, w)
}

func decode(r io.Reader, what string, expectedHeader []string, out interface{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read %s CSV: %w", what, err)
	}
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err == io.EOF {
		return fmt.Errorf("%s CSV must have a header row", what)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s CSV: %w", what, err)
	}
	if !validateHeader(header, expectedHeader) {
		return fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", what, expectedHeader, header)
	}
	if err := gocsv.UnmarshalBytes(data, out); err != nil {
		return fmt.Errorf("failed to decode %s CSV: %w", what, err)
	}
	return nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return entities.UnassignedID, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if id < 0 {
		return 0, &entities.InvalidKeyError{ID: id}
	}
	return id, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return price, nil
}
