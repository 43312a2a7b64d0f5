package freight

import (
	"github.com/fms/backend/internal/domain/numbering"
	"github.com/fms/backend/internal/domain/resource"
)

// OrderType classifies customer orders by business type
var OrderType = &resource.Definition{
	Name:  "order type",
	Path:  "oms/order-type",
	Table: "oms_order_types",
	Fields: []resource.Field{
		str("orderTypeCode", "order_type_code", size(20), required, unique, upper),
		str("orderTypeName", "order_type_name", size(100), required),
		str("bizType", "biz_type", size(20)),
		text("description", "description"),
		str("relatedSystem", "related_system", size(50)),
		flag("active", "is_active", byDefault(true)),
	},
	Filters: []resource.FilterSpec{
		eq("bizType", "biz_type", resource.String),
		eq("active", "is_active", resource.Flag),
	},
	SearchColumns: []string{"order_type_code", "order_type_name"},
	Order:         []resource.OrderTerm{{Column: "order_type_code"}},
}

// SOControl configures how service orders of a customer and order type are
// validated and released
var SOControl = &resource.Definition{
	Name:  "S/O control",
	Path:  "oms/so-control",
	Table: "oms_so_controls",
	Fields: []resource.Field{
		str("controlCode", "control_code", size(20), required, unique, upper),
		str("controlName", "control_name", size(100), required),
		str("customerCode", "customer_code", size(20)),
		str("orderTypeCode", "order_type_code", size(20), upper),
		str("bizType", "biz_type", size(20)),
		flag("checkValidation", "check_validation", byDefault(true)),
		flag("autoRelease", "auto_release", byDefault(false)),
		flag("autoValueAssignment", "auto_value_assignment", byDefault(false)),
		str("methodType", "method_type", size(20), byDefault("SEQUENTIAL"), rule("oneof=SEQUENTIAL PARALLEL")),
		str("executionModule", "execution_module", size(50)),
		flag("active", "is_active", byDefault(true)),
	},
	Lookups: []resource.Lookup{orderTypeLookup()},
	Filters: []resource.FilterSpec{
		eq("customerCode", "customer_code", resource.String),
		eq("active", "is_active", resource.Flag),
	},
	SearchColumns: []string{"control_code", "control_name"},
	Order:         []resource.OrderTerm{{Column: "control_code"}},
}

// CustomerOrder is an order received from a customer before it becomes a
// booking. Numbers restart daily: CO20260514-0001.
var CustomerOrder = &resource.Definition{
	Name:  "customer order",
	Path:  "oms/customer-order",
	Table: "oms_customer_orders",
	Numbering: &numbering.Scheme{
		Prefix:            "CO",
		PeriodLayout:      "20060102",
		SequenceSeparator: "-",
		Width:             4,
	},
	NumberColumn: "co_number",
	NumberField:  "coNumber",
	Fields: []resource.Field{
		str("orderTypeCode", "order_type_code", size(20), upper),
		str("bizType", "biz_type", size(20), byDefault("FORWARDING")),
		str("customerCode", "customer_code", size(20), required),
		str("customerName", "customer_name", size(200)),
		str("shipperName", "shipper_name", size(200)),
		str("consigneeName", "consignee_name", size(200)),
		str("pol", "pol", size(10)),
		str("pod", "pod", size(10)),
		date("etd", "etd"),
		date("eta", "eta"),
		str("cargoType", "cargo_type", size(20)),
		str("commodity", "commodity", size(200)),
		integer("quantity", "quantity", byDefault(0), rule("gte=0")),
		dec("weight", "weight"),
		dec("volume", "volume"),
		str("incoterms", "incoterms", size(10)),
		str("status", "status", size(20), byDefault("DRAFT")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{orderTypeLookup()},
	Filters: []resource.FilterSpec{
		eq("bizType", "biz_type", resource.String),
		eq("customerCode", "customer_code", resource.String),
		eq("orderTypeCode", "order_type_code", resource.String),
	},
	SearchColumns: []string{"customer_name", "shipper_name", "consignee_name"},
	DateColumn:    resource.ColumnCreatedAt,
}

func orderTypeLookup() resource.Lookup {
	return resource.Lookup{
		Table: "oms_order_types", Alias: "ot", LocalColumn: "order_type_code", ForeignColumn: "order_type_code",
		Fields: []resource.LookupField{{Column: "order_type_name", Name: "orderTypeName"}},
	}
}

// ExchangeRate is a daily bank rate against KRW, one row per currency
var ExchangeRate = &resource.Definition{
	Name:  "exchange rate",
	Path:  "exchange-rate",
	Table: "exchange_rates",
	Fields: []resource.Field{
		date("rateDate", "rate_date", required, today),
		str("currencyCode", "currency_code", size(10), required, upper),
		str("currencyName", "currency_name", size(50)),
		dec("dealBasR", "deal_bas_r"),
		dec("ttb", "ttb"),
		dec("tts", "tts"),
		dec("bkpr", "bkpr"),
		dec("kftcDealBasR", "kftc_deal_bas_r"),
	},
	Filters: []resource.FilterSpec{
		eq("currencyCode", "currency_code", resource.String),
	},
	SearchColumns: []string{"currency_code", "currency_name"},
	DateColumn:    "rate_date",
	Order:         []resource.OrderTerm{{Column: "rate_date", Desc: true}, {Column: "currency_code"}},
	Delete:        resource.HardDelete,
}
