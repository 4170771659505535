package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/events"
)

// PartKind tells how a part is sourced
type PartKind int

const (
	InHouse PartKind = iota
	Outsourced
)

// String method for PartKind enum
func (k PartKind) String() string {
	switch k {
	case InHouse:
		return "InHouse"
	case Outsourced:
		return "Outsourced"
	default:
		return "Unknown"
	}
}

// ParsePartKind accepts the String form or the lowercase "inhouse"/"in-house"/"outsourced"
func ParsePartKind(s string) (PartKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inhouse", "in-house", "in_house":
		return InHouse, nil
	case "outsourced":
		return Outsourced, nil
	default:
		return 0, fmt.Errorf("unknown part kind: %q", s)
	}
}

// Part is an inventory component, either manufactured in-house (with a machine
// id) or purchased from an outside company.
type Part struct {
	record

	kind        PartKind
	machineID   int
	companyName string
}

// NewInHouse creates a validated in-house part. A negative id leaves the id
// for the inventory to assign.
func NewInHouse(id int, name string, price decimal.Decimal, stock, min, max, machineID int) (*Part, error) {
	r, err := newRecord(id, name, price, stock, min, max)
	if err != nil {
		return nil, err
	}
	return &Part{record: r, kind: InHouse, machineID: machineID}, nil
}

// NewOutsourced creates a validated outsourced part
func NewOutsourced(id int, name string, price decimal.Decimal, stock, min, max int, companyName string) (*Part, error) {
	r, err := newRecord(id, name, price, stock, min, max)
	if err != nil {
		return nil, err
	}
	if err := validateCompanyName(companyName); err != nil {
		return nil, err
	}
	return &Part{record: r, kind: Outsourced, companyName: strings.TrimSpace(companyName)}, nil
}

func validateCompanyName(companyName string) error {
	if strings.TrimSpace(companyName) == "" {
		return newValidationError(FieldCompanyName, "company name cannot be empty")
	}
	return nil
}

// Kind returns how the part is sourced
func (p *Part) Kind() PartKind { return p.kind }

// MachineID returns the machine id of an in-house part, zero otherwise
func (p *Part) MachineID() int { return p.machineID }

// CompanyName returns the supplier of an outsourced part, empty otherwise
func (p *Part) CompanyName() string { return p.companyName }

// SetMachineID sets the machine id; fails on outsourced parts
func (p *Part) SetMachineID(machineID int) error {
	if p.kind != InHouse {
		return fmt.Errorf("%w: machine id on %s part %d", ErrInvalidParameter, p.kind, p.id)
	}
	if machineID == p.machineID {
		return nil
	}
	old := p.machineID
	p.machineID = machineID
	p.Publish(events.Change{Field: FieldMachineID, Old: old, New: machineID})
	return nil
}

// SetCompanyName sets the supplier, stored trimmed; fails on in-house parts
func (p *Part) SetCompanyName(companyName string) error {
	if p.kind != Outsourced {
		return fmt.Errorf("%w: company name on %s part %d", ErrInvalidParameter, p.kind, p.id)
	}
	if err := validateCompanyName(companyName); err != nil {
		return err
	}
	companyName = strings.TrimSpace(companyName)
	if companyName == p.companyName {
		return nil
	}
	old := p.companyName
	p.companyName = companyName
	p.Publish(events.Change{Field: FieldCompanyName, Old: old, New: companyName})
	return nil
}

// Validate checks every field invariant
func (p *Part) Validate() error {
	if err := p.record.validate(); err != nil {
		return err
	}
	switch p.kind {
	case InHouse:
		return nil
	case Outsourced:
		return validateCompanyName(p.companyName)
	default:
		return fmt.Errorf("%w: unknown part kind %d", ErrInvalidParameter, int(p.kind))
	}
}

// ApplyValues copies src's fields onto p in place, publishing a change for each
// field that differs. Both parts must be of the same kind; the id is not copied.
func (p *Part) ApplyValues(src *Part) error {
	if src == nil {
		return ErrNilEntity
	}
	if src.kind != p.kind {
		return fmt.Errorf("%w: cannot apply %s values to %s part %d", ErrInvalidParameter, src.kind, p.kind, p.id)
	}
	if err := src.Validate(); err != nil {
		return err
	}
	if err := p.record.applyValues(&src.record); err != nil {
		return err
	}
	switch p.kind {
	case InHouse:
		return p.SetMachineID(src.machineID)
	case Outsourced:
		return p.SetCompanyName(src.companyName)
	}
	return nil
}

// Clone returns a copy with the same field values and no subscribers
func (p *Part) Clone() *Part {
	return &Part{
		record:      p.record.values(),
		kind:        p.kind,
		machineID:   p.machineID,
		companyName: p.companyName,
	}
}

func (p *Part) String() string {
	return fmt.Sprintf("%s part %d %q", p.kind, p.id, p.name)
}
