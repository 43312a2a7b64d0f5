// Package resource describes a back-office resource declaratively so that one
// generic gateway can create, list, read, update and delete every resource type.
//
// A Definition maps external JSON field names to storage columns, declares
// defaults, required fields, list filters and lookup joins, and names the
// numbering scheme used for the resource's business document number.
package resource

import (
	"fmt"
	"time"

	"github.com/fms/backend/internal/domain/numbering"
)

// Kind is the value type of a field
type Kind int

const (
	String Kind = iota
	Text
	Int
	Decimal
	Date
	DateTime
	Flag
	Ref
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Text:
		return "text"
	case Int:
		return "int"
	case Decimal:
		return "decimal"
	case Date:
		return "date"
	case DateTime:
		return "datetime"
	case Flag:
		return "flag"
	case Ref:
		return "ref"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DeleteMode selects how Delete removes records
type DeleteMode int

const (
	// SoftDelete flags rows with del_yn = 'Y'
	SoftDelete DeleteMode = iota
	// HardDelete removes rows; used for append-only logs
	HardDelete
)

// Field maps one external field to a column
type Field struct {
	Name     string // external JSON key, camelCase
	Column   string // storage column, snake_case
	Kind     Kind
	Size     int  // VARCHAR width for String fields; 0 means 255, negative means unchecked
	Required bool // must be present on create and may not be blanked on update
	Unique   bool // backed by a unique index
	Upper    bool // String values are stored upper-cased
	// Default is applied on create when the field is omitted or empty.
	// It is given in external form, e.g. "DRAFT", true, "3".
	Default any
	// DefaultFunc computes a default from the creation clock
	DefaultFunc func(now time.Time) any
	// Rule is a go-playground/validator tag applied to the converted value
	Rule string
}

// LookupField is a column read from a joined table
type LookupField struct {
	Column string // column in the joined table
	Name   string // external key in the response
}

// Lookup is a LEFT JOIN used to enrich responses with display values
type Lookup struct {
	Table         string
	Alias         string
	LocalColumn   string // column on the resource table
	ForeignColumn string // column on the joined table, usually "id"
	Fields        []LookupField
}

// SelectAlias is the result column alias of a lookup field
func (l Lookup) SelectAlias(f LookupField) string {
	return "lk_" + l.Alias + "_" + f.Column
}

// FilterOp is the comparison a list filter applies
type FilterOp int

const (
	OpEq FilterOp = iota
	OpContains
	OpPrefix
	OpGte
	OpLte
	OpLt
	// OpIn matches any element of a slice value
	OpIn
)

// FilterSpec maps a query parameter to a condition on a column
type FilterSpec struct {
	Param  string
	Column string
	Kind   Kind
	Op     FilterOp
}

// OrderTerm is one ORDER BY term on the resource table
type OrderTerm struct {
	Column string
	Desc   bool
}

// ParentProvision creates a parent record inside the child's transaction
// when the child is created without a reference to one.
type ParentProvision struct {
	// Field is the external name of the child's reference field
	Field string
	// Parent is the definition of the record to create
	Parent *Definition
	// Seed builds the parent's columns from the child's converted record
	Seed func(child Record) Record
}

// Definition is the declarative description of one resource
type Definition struct {
	Name  string // human name used in messages, e.g. "sea booking"
	Path  string // route path below /api, e.g. "booking/sea"
	Table string

	// Numbering is nil for resources without a business document number
	Numbering    *numbering.Scheme
	NumberColumn string
	NumberField  string

	Fields  []Field
	Lookups []Lookup
	Filters []FilterSpec

	// SearchColumns are matched by the "search" parameter in addition to
	// the number column
	SearchColumns []string
	// DateColumn is the column bounded by startDate/endDate
	DateColumn string
	// Order is the list order; created_at DESC when empty
	Order []OrderTerm

	Delete DeleteMode
	Parent *ParentProvision

	// Fixed columns are written on create and constrain every query,
	// letting two resources share one table
	Fixed map[string]any

	// MaxRows caps list results; 0 uses the gateway default
	MaxRows int
}

// Audit and bookkeeping columns present on every resource table
const (
	ColumnID        = "id"
	ColumnCreatedBy = "created_by"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedBy = "updated_by"
	ColumnUpdatedAt = "updated_at"
	ColumnDeleted   = "del_yn"
)

// Record holds column values keyed by column name
type Record map[string]any

// FieldByName returns the field with the given external name
func (d *Definition) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldByColumn returns the field stored in column
func (d *Definition) FieldByColumn(column string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Column == column {
			return f, true
		}
	}
	return Field{}, false
}

// Numbered reports whether the resource has a business document number
func (d *Definition) Numbered() bool {
	return d.Numbering != nil
}

// SoftDeletes reports whether the table carries a delete flag
func (d *Definition) SoftDeletes() bool {
	return d.Delete == SoftDelete
}

// OrderTerms returns the list order
func (d *Definition) OrderTerms() []OrderTerm {
	if len(d.Order) > 0 {
		return d.Order
	}
	return []OrderTerm{{Column: ColumnCreatedAt, Desc: true}, {Column: ColumnID, Desc: true}}
}

// HasStatus reports whether the resource has a status field
func (d *Definition) HasStatus() bool {
	_, ok := d.FieldByName("status")
	return ok
}

// Validate checks the definition for mistakes that would otherwise surface
// as SQL errors at request time
func (d *Definition) Validate() error {
	if d.Name == "" || d.Path == "" || d.Table == "" {
		return fmt.Errorf("resource: name, path and table are required")
	}

	names := make(map[string]bool)
	columns := map[string]bool{
		ColumnID: true, ColumnCreatedBy: true, ColumnCreatedAt: true,
		ColumnUpdatedBy: true, ColumnUpdatedAt: true, ColumnDeleted: true,
	}
	for _, f := range d.Fields {
		if f.Name == "" || f.Column == "" {
			return fmt.Errorf("resource %s: field with empty name or column", d.Path)
		}
		if f.Name == "id" || names[f.Name] {
			return fmt.Errorf("resource %s: duplicate field %q", d.Path, f.Name)
		}
		if columns[f.Column] {
			return fmt.Errorf("resource %s: duplicate column %q", d.Path, f.Column)
		}
		names[f.Name] = true
		columns[f.Column] = true
	}

	if d.Numbering != nil {
		if err := d.Numbering.Validate(); err != nil {
			return fmt.Errorf("resource %s: %w", d.Path, err)
		}
		if d.NumberColumn == "" || d.NumberField == "" {
			return fmt.Errorf("resource %s: number column and field are required", d.Path)
		}
		if columns[d.NumberColumn] || names[d.NumberField] {
			return fmt.Errorf("resource %s: number column %q must not be a mapped field", d.Path, d.NumberColumn)
		}
		if d.Numbering.PrefixField != "" {
			if _, ok := d.FieldByName(d.Numbering.PrefixField); !ok {
				return fmt.Errorf("resource %s: prefix field %q is not mapped", d.Path, d.Numbering.PrefixField)
			}
		}
		columns[d.NumberColumn] = true
	}

	for col := range d.Fixed {
		if columns[col] {
			return fmt.Errorf("resource %s: fixed column %q must not be a mapped field", d.Path, col)
		}
		columns[col] = true
	}

	for _, l := range d.Lookups {
		if l.Alias == "" || l.Alias == "t" {
			return fmt.Errorf("resource %s: lookup on %s needs an alias other than t", d.Path, l.Table)
		}
		if !columns[l.LocalColumn] {
			return fmt.Errorf("resource %s: lookup column %q is not mapped", d.Path, l.LocalColumn)
		}
	}

	for _, fs := range d.Filters {
		if !columns[fs.Column] {
			return fmt.Errorf("resource %s: filter column %q is not mapped", d.Path, fs.Column)
		}
	}

	if d.DateColumn != "" && !columns[d.DateColumn] {
		return fmt.Errorf("resource %s: date column %q is not mapped", d.Path, d.DateColumn)
	}

	if d.Parent != nil {
		f, ok := d.FieldByName(d.Parent.Field)
		if !ok || f.Kind != Ref {
			return fmt.Errorf("resource %s: parent field %q must be a mapped reference", d.Path, d.Parent.Field)
		}
		if d.Parent.Parent == nil || d.Parent.Seed == nil {
			return fmt.Errorf("resource %s: parent definition and seed are required", d.Path)
		}
	}

	return nil
}
