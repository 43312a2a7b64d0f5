package freight

import "github.com/fms/backend/internal/domain/resource"

// Carrier is a shipping line or airline
var Carrier = &resource.Definition{
	Name:  "carrier",
	Path:  "carriers",
	Table: "carriers",
	Fields: []resource.Field{
		str("carrierCode", "carrier_code", size(20), required),
		str("carrierName", "carrier_name", size(100), required),
		str("carrierType", "carrier_type", size(10), byDefault("SEA"), rule("oneof=SEA AIR")),
		str("scacCode", "scac_code", size(4)),
		str("iataCode", "iata_code", size(3)),
		str("countryCode", "country_cd", size(2)),
		flag("active", "use_yn", byDefault(true)),
		text("remarks", "remarks"),
	},
	Filters: []resource.FilterSpec{
		eq("carrierType", "carrier_type", resource.String),
		eq("active", "use_yn", resource.Flag),
	},
	SearchColumns: []string{"carrier_code", "carrier_name"},
}

// Port is a sea port or airport keyed by its UN/LOCODE or IATA code
var Port = &resource.Definition{
	Name:  "port",
	Path:  "ports",
	Table: "ports",
	Fields: []resource.Field{
		str("portCode", "port_code", size(10), required, unique),
		str("portName", "port_name", size(100), required),
		str("portType", "port_type", size(10), byDefault("SEA"), rule("oneof=SEA AIR")),
		str("countryCode", "country_cd", size(2)),
		str("cityName", "city_name", size(100)),
		flag("active", "use_yn", byDefault(true)),
	},
	Filters: []resource.FilterSpec{
		eq("portType", "port_type", resource.String),
		eq("countryCode", "country_cd", resource.String),
	},
	SearchColumns: []string{"port_code", "port_name"},
}

// Customer is a shipper, consignee or billing party
var Customer = &resource.Definition{
	Name:  "customer",
	Path:  "customers",
	Table: "customers",
	Fields: []resource.Field{
		str("customerCode", "customer_code", size(20), required),
		str("customerName", "customer_name", size(200), required),
		str("customerType", "customer_type", size(20)),
		str("businessRegNo", "business_reg_no", size(30)),
		text("address", "address"),
		str("contactName", "contact_name", size(100)),
		str("tel", "tel", size(30)),
		str("email", "email", size(100), rule("email")),
		str("countryCode", "country_cd", size(2)),
		flag("active", "use_yn", byDefault(true)),
	},
	Filters: []resource.FilterSpec{
		eq("customerType", "customer_type", resource.String),
	},
	SearchColumns: []string{"customer_code", "customer_name"},
}

// Voyage groups the port calls of one vessel rotation
var Voyage = &resource.Definition{
	Name:  "voyage",
	Path:  "voyages",
	Table: "voyages",
	Fields: []resource.Field{
		str("vesselName", "vessel_name", size(100), required),
		str("voyageNo", "voyage_no", size(30), required),
		ref("carrierId", "carrier_id"),
		str("status", "status", size(20), byDefault("OPEN")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{carrierLookup("carrier_id")},
	Filters: []resource.FilterSpec{
		eq("carrierId", "carrier_id", resource.Ref),
	},
	SearchColumns: []string{"vessel_name", "voyage_no"},
}

// Shipment groups the documents of one consignment
var Shipment = &resource.Definition{
	Name:         "shipment",
	Path:         "shipments",
	Table:        "shipments",
	Numbering:    yearly("SHP", "", 4),
	NumberColumn: "shipment_no",
	NumberField:  "shipmentNo",
	Fields: []resource.Field{
		str("transportMode", "transport_mode", size(10), required, rule("oneof=SEA AIR")),
		str("tradeType", "trade_type", size(10), byDefault("EXPORT"), rule("oneof=EXPORT IMPORT")),
		str("serviceType", "service_type", size(20)),
		str("incoterms", "incoterms", size(10)),
		ref("customerId", "customer_id"),
		ref("shipperId", "shipper_id"),
		ref("consigneeId", "consignee_id"),
		ref("carrierId", "carrier_id"),
		str("origin", "origin_port_cd", size(10), required),
		str("destination", "dest_port_cd", size(10), required),
		date("etd", "etd"),
		date("eta", "eta"),
		integer("totalPkgQty", "total_pkg_qty", rule("gte=0")),
		str("pkgType", "pkg_type", size(20), byDefault("CARTON")),
		dec("grossWeight", "gross_weight_kg"),
		dec("volume", "volume_cbm"),
		dec("declaredValue", "declared_value"),
		str("currency", "currency", size(3), byDefault("USD")),
		str("status", "status", size(20), byDefault("PENDING")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		customerLookup("customer_id"),
		carrierLookup("carrier_id"),
		portLookup("po", "origin_port_cd", "originName"),
		portLookup("pd", "dest_port_cd", "destinationName"),
	},
	Filters: []resource.FilterSpec{
		eq("transportMode", "transport_mode", resource.String),
		eq("tradeType", "trade_type", resource.String),
		eq("customerId", "customer_id", resource.Ref),
		eq("carrierId", "carrier_id", resource.Ref),
		eq("origin", "origin_port_cd", resource.String),
		eq("destination", "dest_port_cd", resource.String),
	},
	DateColumn: "etd",
}

// provisionShipment seeds a placeholder shipment from a child document.
// polColumn and podColumn name the child's itinerary columns.
func provisionShipment(mode, polColumn, podColumn string) *resource.ParentProvision {
	return &resource.ParentProvision{
		Field:  "shipmentId",
		Parent: Shipment,
		Seed: func(child resource.Record) resource.Record {
			transport := mode
			if m, ok := child["transport_mode"].(string); ok && m != "" {
				transport = m
			}
			seed := resource.Record{
				"transport_mode": transport,
				"trade_type":     "EXPORT",
				"status":         "PENDING",
			}
			copyColumn(seed, "trade_type", child, "trade_type")
			copyColumn(seed, "customer_id", child, "customer_id")
			copyColumn(seed, "carrier_id", child, "carrier_id")
			copyColumn(seed, "origin_port_cd", child, polColumn)
			copyColumn(seed, "dest_port_cd", child, podColumn)
			copyColumn(seed, "etd", child, "etd")
			copyColumn(seed, "eta", child, "eta")
			return seed
		},
	}
}

func copyColumn(dst resource.Record, dstColumn string, src resource.Record, srcColumn string) {
	if v, ok := src[srcColumn]; ok && v != nil {
		dst[dstColumn] = v
	}
}
