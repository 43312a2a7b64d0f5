package freight

import "github.com/fms/backend/internal/domain/resource"

// CustomsDeclaration is an import or export customs filing
var CustomsDeclaration = &resource.Definition{
	Name:         "customs declaration",
	Path:         "customs/sea",
	Table:        "customs_declarations",
	Numbering:    yearly("CUS", "-", 4),
	NumberColumn: "declaration_no",
	NumberField:  "declarationNo",
	Fields: []resource.Field{
		ref("shipmentId", "shipment_id"),
		str("declarationType", "declaration_type", size(10), required, byDefault("EXPORT"), rule("oneof=EXPORT IMPORT")),
		date("declarationDate", "declaration_date", today),
		ref("brokerId", "broker_id"),
		str("declarant", "declarant", size(100)),
		str("importerExporter", "importer_exporter", size(200)),
		str("brn", "importer_exporter_brn", size(30)),
		str("hsCode", "hs_code", size(20)),
		text("goodsDesc", "goods_desc"),
		str("countryOrigin", "country_origin", size(2)),
		integer("packageQty", "package_qty", rule("gte=0")),
		dec("grossWeight", "gross_weight_kg"),
		dec("declaredValue", "declared_value"),
		str("currency", "currency", size(3), byDefault("USD")),
		dec("dutyAmount", "duty_amount"),
		dec("vatAmount", "vat_amount"),
		dec("totalTax", "total_tax"),
		str("status", "status", size(20), byDefault("DRAFT")),
		date("clearanceDate", "clearance_dt"),
		date("releaseDate", "release_dt"),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		customerLookup("broker_id"),
	},
	Filters: []resource.FilterSpec{
		eq("declarationType", "declaration_type", resource.String),
		eq("shipmentId", "shipment_id", resource.Ref),
	},
	SearchColumns: []string{"importer_exporter", "hs_code"},
	DateColumn:    "declaration_date",
}

// ShippingRequest is the shipper's instruction to move cargo. Created
// without a shipment, it gets a placeholder one in the same transaction.
var ShippingRequest = &resource.Definition{
	Name:         "shipping request",
	Path:         "sr/sea",
	Table:        "shipping_requests",
	Numbering:    yearly("SR", "-", 4),
	NumberColumn: "sr_no",
	NumberField:  "srNo",
	Fields: []resource.Field{
		ref("shipmentId", "shipment_id"),
		ref("bookingId", "booking_id"),
		ref("customerId", "customer_id"),
		str("transportMode", "transport_mode", size(10), byDefault("SEA"), rule("oneof=SEA AIR")),
		str("tradeType", "trade_type", size(10), byDefault("EXPORT"), rule("oneof=EXPORT IMPORT")),
		str("shipperName", "shipper_name", size(200)),
		text("shipperAddress", "shipper_addr"),
		str("consigneeName", "consignee_name", size(200)),
		text("consigneeAddress", "consignee_addr"),
		text("notifyParty", "notify_party"),
		str("pol", "origin_port_cd", size(10), required),
		str("pod", "dest_port_cd", size(10), required),
		date("cargoReadyDate", "cargo_ready_dt"),
		text("commodityDesc", "commodity_desc"),
		integer("packageQty", "pkg_qty", rule("gte=0")),
		str("packageType", "pkg_type", size(20)),
		dec("grossWeight", "gross_weight_kg"),
		dec("volume", "volume_cbm"),
		str("status", "status", size(20), byDefault("DRAFT")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		customerLookup("customer_id"),
		portLookup("pl", "origin_port_cd", "polName"),
		portLookup("pd", "dest_port_cd", "podName"),
	},
	Filters: []resource.FilterSpec{
		eq("shipmentId", "shipment_id", resource.Ref),
		eq("customerId", "customer_id", resource.Ref),
		eq("transportMode", "transport_mode", resource.String),
		eq("pol", "origin_port_cd", resource.String),
		eq("pod", "dest_port_cd", resource.String),
	},
	SearchColumns: []string{"shipper_name", "consignee_name"},
	DateColumn:    "cargo_ready_dt",
	Parent:        provisionShipment("SEA", "origin_port_cd", "dest_port_cd"),
}

// ShippingNotice tells the consignee side that cargo has been dispatched
var ShippingNotice = &resource.Definition{
	Name:         "shipping notice",
	Path:         "sn/sea",
	Table:        "shipping_notices",
	Numbering:    yearly("SN", "-", 4),
	NumberColumn: "sn_no",
	NumberField:  "snNo",
	Fields: []resource.Field{
		ref("shipmentId", "shipment_id"),
		ref("mblId", "mbl_id"),
		ref("hblId", "hbl_id"),
		str("senderName", "sender_name", size(100)),
		str("recipientName", "recipient_name", size(100)),
		str("recipientEmail", "recipient_email", size(200), rule("email")),
		str("transportMode", "transport_mode", size(10), byDefault("SEA"), rule("oneof=SEA AIR")),
		str("carrierName", "carrier_nm", size(100)),
		str("vesselFlight", "vessel_flight", size(100)),
		str("voyageNo", "voyage_no", size(30)),
		str("pol", "origin_port_cd", size(10), required),
		str("pod", "dest_port_cd", size(10), required),
		date("etd", "etd"),
		date("eta", "eta"),
		text("commodityDesc", "commodity_desc"),
		integer("packageQty", "pkg_qty", rule("gte=0")),
		dec("grossWeight", "gross_weight_kg"),
		dec("volume", "volume_cbm"),
		str("status", "status", size(20), byDefault("DRAFT")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		documentLookup("master_bls", "mb", "mbl_id", "mbl_no", "mblNo"),
		documentLookup("house_bls", "hb", "hbl_id", "hbl_no", "hblNo"),
		portLookup("pl", "origin_port_cd", "polName"),
		portLookup("pd", "dest_port_cd", "podName"),
	},
	Filters: []resource.FilterSpec{
		eq("shipmentId", "shipment_id", resource.Ref),
		eq("mblId", "mbl_id", resource.Ref),
		eq("hblId", "hbl_id", resource.Ref),
		eq("pol", "origin_port_cd", resource.String),
		eq("pod", "dest_port_cd", resource.String),
	},
	SearchColumns: []string{"recipient_name", "vessel_flight"},
	DateColumn:    "etd",
	Parent:        provisionShipment("SEA", "origin_port_cd", "dest_port_cd"),
}

// SeaQuote is a freight rate offer to a customer
var SeaQuote = &resource.Definition{
	Name:         "sea quote",
	Path:         "quote/sea",
	Table:        "sea_quotes",
	Numbering:    yearly("SQ", "-", 4),
	NumberColumn: "quote_no",
	NumberField:  "quoteNo",
	Fields: []resource.Field{
		date("quoteDate", "quote_date", today),
		str("requestNo", "request_no", size(30)),
		ref("customerId", "customer_id"),
		str("consignee", "consignee_name", size(200)),
		ref("carrierId", "carrier_id"),
		str("pol", "pol_port_cd", size(10), required),
		str("pod", "pod_port_cd", size(10), required),
		str("containerType", "container_type", size(10), byDefault("20DC")),
		integer("containerQty", "container_qty", byDefault(1), rule("gte=0")),
		str("incoterms", "incoterms", size(10), byDefault("CFR")),
		date("validFrom", "valid_from"),
		date("validTo", "valid_to"),
		dec("totalAmount", "total_amount"),
		str("currency", "currency", size(3), byDefault("USD")),
		str("status", "status", size(20), byDefault("DRAFT")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		customerLookup("customer_id"),
		carrierLookup("carrier_id"),
		portLookup("pl", "pol_port_cd", "polName"),
		portLookup("pd", "pod_port_cd", "podName"),
	},
	Filters: []resource.FilterSpec{
		eq("customerId", "customer_id", resource.Ref),
		eq("carrierId", "carrier_id", resource.Ref),
		eq("pol", "pol_port_cd", resource.String),
		eq("pod", "pod_port_cd", resource.String),
	},
	SearchColumns: []string{"request_no", "consignee_name"},
	DateColumn:    "quote_date",
}
