package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/vsinha/ims/pkg/application/dto"
	"github.com/vsinha/ims/pkg/domain/entities"
)

// Form validation messages
const (
	MsgTextEmpty      = "Text cannot be empty."
	MsgValueEmpty     = "Value cannot be empty."
	MsgBelowZero      = "Value cannot be less than zero"
	MsgInvalidNumber  = "Invalid number value"
	MsgMaxNotAboveMin = "Value must be greater than the minimum inventory count."
)

// FieldError is a validation failure on one form field
type FieldError struct {
	Label   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Label, e.Message)
}

// ValidationReport collects every field failure of a form so they can be
// shown together
type ValidationReport struct {
	err error
}

// Add records a failure on the field with label
func (r *ValidationReport) Add(label, message string) {
	r.err = multierr.Append(r.err, &FieldError{Label: label, Message: message})
}

// AddError records err against label. A *entities.ValidationError keeps its
// own message; any other error is recorded as is.
func (r *ValidationReport) AddError(label string, err error) {
	if err == nil {
		return
	}
	var verr *entities.ValidationError
	if errors.As(err, &verr) {
		r.Add(label, verr.Message)
		return
	}
	var ferr *FieldError
	if errors.As(err, &ferr) {
		r.err = multierr.Append(r.err, ferr)
		return
	}
	r.Add(label, err.Error())
}

// Len returns the number of failures
func (r *ValidationReport) Len() int {
	return len(multierr.Errors(r.err))
}

// Err returns the combined error, or nil when the form is valid
func (r *ValidationReport) Err() error {
	return r.err
}

// Messages returns one "Label: message" line per failure, in the order added
func (r *ValidationReport) Messages() []string {
	errs := multierr.Errors(r.err)
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return messages
}

// String joins the messages one per line
func (r *ValidationReport) String() string {
	return strings.Join(r.Messages(), "\n")
}

// FieldErrors returns the failures of a combined validation error
func FieldErrors(err error) []*FieldError {
	var fields []*FieldError
	for _, e := range multierr.Errors(err) {
		var ferr *FieldError
		if errors.As(e, &ferr) {
			fields = append(fields, ferr)
		}
	}
	return fields
}

func (r *ValidationReport) requireText(label, s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		r.Add(label, MsgTextEmpty)
	}
	return s
}

func (r *ValidationReport) parseNonNegativeInt(label, s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		r.Add(label, MsgValueEmpty)
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.Add(label, MsgInvalidNumber)
		return 0, false
	}
	if v < 0 {
		r.Add(label, MsgBelowZero)
		return v, false
	}
	return v, true
}

func (r *ValidationReport) parseInt(label, s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		r.Add(label, MsgValueEmpty)
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.Add(label, MsgInvalidNumber)
		return 0, false
	}
	return v, true
}

func (r *ValidationReport) parsePrice(label, s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		r.Add(label, MsgValueEmpty)
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		r.Add(label, MsgInvalidNumber)
		return decimal.Zero, false
	}
	if v.IsNegative() {
		r.Add(label, MsgBelowZero)
		return v, false
	}
	return v, true
}

// stockFields holds the parsed values shared by the part and product forms
type stockFields struct {
	name  string
	price decimal.Decimal
	stock int
	min   int
	max   int
}

// parseStockFields parses the fields common to both forms and reports
// whether all of them were valid
func (r *ValidationReport) parseStockFields(name, price, stock, min, max string) (stockFields, bool) {
	before := r.Len()
	var f stockFields
	f.name = r.requireText(dto.LabelName, name)
	f.price, _ = r.parsePrice(dto.LabelPrice, price)
	f.stock, _ = r.parseNonNegativeInt(dto.LabelStock, stock)
	f.min, _ = r.parseNonNegativeInt(dto.LabelMin, min)
	var maxOK bool
	f.max, maxOK = r.parseInt(dto.LabelMax, max)
	if maxOK && f.max <= f.min {
		r.Add(dto.LabelMax, MsgMaxNotAboveMin)
	}
	return f, r.Len() == before
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
