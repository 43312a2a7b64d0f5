// Package freight declares the freight-forwarding resources served by the
// gateway: bookings, bills of lading, air waybills, B/L and AWB job files,
// customs, shipping documents, quotes, customer orders, schedules, filings,
// pre-alerts, exchange rates and master data.
package freight

import (
	"time"

	"github.com/fms/backend/internal/domain/numbering"
	"github.com/fms/backend/internal/domain/resource"
)

type option func(*resource.Field)

func required(f *resource.Field) { f.Required = true }

func unique(f *resource.Field) { f.Unique = true }

func upper(f *resource.Field) { f.Upper = true }

func byDefault(v any) option {
	return func(f *resource.Field) { f.Default = v }
}

func rule(r string) option {
	return func(f *resource.Field) { f.Rule = r }
}

func size(n int) option {
	return func(f *resource.Field) { f.Size = n }
}

func today(f *resource.Field) {
	f.DefaultFunc = func(now time.Time) any { return now.Format(resource.DateLayout) }
}

func build(name, column string, kind resource.Kind, opts []option) resource.Field {
	f := resource.Field{Name: name, Column: column, Kind: kind}
	for _, o := range opts {
		o(&f)
	}
	return f
}

func str(name, column string, opts ...option) resource.Field {
	return build(name, column, resource.String, opts)
}

func text(name, column string, opts ...option) resource.Field {
	return build(name, column, resource.Text, opts)
}

func integer(name, column string, opts ...option) resource.Field {
	return build(name, column, resource.Int, opts)
}

func dec(name, column string, opts ...option) resource.Field {
	return build(name, column, resource.Decimal, append([]option{rule("gte=0")}, opts...))
}

func date(name, column string, opts ...option) resource.Field {
	return build(name, column, resource.Date, opts)
}

func datetime(name, column string, opts ...option) resource.Field {
	return build(name, column, resource.DateTime, opts)
}

func flag(name, column string, opts ...option) resource.Field {
	return build(name, column, resource.Flag, opts)
}

func ref(name, column string, opts ...option) resource.Field {
	return build(name, column, resource.Ref, opts)
}

func yearly(prefix, sep string, width int) *numbering.Scheme {
	return &numbering.Scheme{Prefix: prefix, Separator: sep, PeriodLayout: "2006", Width: width}
}

// byDirection numbers jobs per year under the export or import prefix
// selected by the ioType field
func byDirection(export, imp string) *numbering.Scheme {
	return &numbering.Scheme{
		PrefixField:   "ioType",
		PrefixMap:     map[string]string{"OUT": export, "IN": imp},
		DefaultPrefix: export,
		Separator:     "-",
		PeriodLayout:  "2006",
		Width:         4,
	}
}

func ioType() resource.Field {
	return str("ioType", "io_type", size(3), upper, byDefault("OUT"), rule("oneof=OUT IN"))
}

func eq(param, column string, kind resource.Kind) resource.FilterSpec {
	return resource.FilterSpec{Param: param, Column: column, Kind: kind, Op: resource.OpEq}
}

func contains(param, column string) resource.FilterSpec {
	return resource.FilterSpec{Param: param, Column: column, Kind: resource.String, Op: resource.OpContains}
}

func carrierLookup(column string) resource.Lookup {
	return resource.Lookup{
		Table: "carriers", Alias: "cr", LocalColumn: column, ForeignColumn: "id",
		Fields: []resource.LookupField{{Column: "carrier_name", Name: "carrierName"}},
	}
}

func customerLookup(column string) resource.Lookup {
	return resource.Lookup{
		Table: "customers", Alias: "cu", LocalColumn: column, ForeignColumn: "id",
		Fields: []resource.LookupField{{Column: "customer_name", Name: "customerName"}},
	}
}

func portLookup(alias, column, name string) resource.Lookup {
	return resource.Lookup{
		Table: "ports", Alias: alias, LocalColumn: column, ForeignColumn: "port_code",
		Fields: []resource.LookupField{{Column: "port_name", Name: name}},
	}
}

func documentLookup(table, alias, column, numberColumn, name string) resource.Lookup {
	return resource.Lookup{
		Table: table, Alias: alias, LocalColumn: column, ForeignColumn: "id",
		Fields: []resource.LookupField{{Column: numberColumn, Name: name}},
	}
}

var byEtd = []resource.OrderTerm{{Column: "etd"}, {Column: resource.ColumnID}}
