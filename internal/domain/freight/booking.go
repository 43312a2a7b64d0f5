package freight

import "github.com/fms/backend/internal/domain/resource"

// SeaBooking is a space reservation with an ocean carrier
var SeaBooking = &resource.Definition{
	Name:         "sea booking",
	Path:         "booking/sea",
	Table:        "sea_bookings",
	Numbering:    yearly("SB", "-", 4),
	NumberColumn: "booking_no",
	NumberField:  "bookingNo",
	Fields: []resource.Field{
		str("bookingType", "booking_type", size(10), byDefault("EXPORT"), rule("oneof=EXPORT IMPORT")),
		str("serviceType", "service_type", size(20), byDefault("CY_TO_CY")),
		str("incoterms", "incoterms", size(10), byDefault("FOB")),
		str("freightTerms", "freight_terms", size(20)),
		str("paymentTerms", "payment_terms", size(20), byDefault("PREPAID")),
		ref("shipmentId", "shipment_id"),
		str("shipperCode", "shipper_code", size(20)),
		str("shipperName", "shipper_name", size(200)),
		text("shipperAddress", "shipper_addr"),
		str("shipperContact", "shipper_contact", size(100)),
		str("shipperTel", "shipper_tel", size(30)),
		str("shipperEmail", "shipper_email", size(100), rule("email")),
		str("consigneeCode", "consignee_code", size(20)),
		str("consigneeName", "consignee_name", size(200)),
		text("consigneeAddress", "consignee_addr"),
		str("consigneeContact", "consignee_contact", size(100)),
		str("consigneeTel", "consignee_tel", size(30)),
		str("consigneeEmail", "consignee_email", size(100), rule("email")),
		str("notifyCode", "notify_code", size(20)),
		str("notifyName", "notify_name", size(200)),
		text("notifyAddress", "notify_addr"),
		str("carrierBookingNo", "carrier_booking_no", size(50)),
		ref("carrierId", "carrier_id"),
		str("vesselName", "vessel_name", size(100)),
		str("voyageNo", "voyage_no", size(30)),
		str("pol", "pol_port_cd", size(10), required),
		str("polTerminal", "pol_terminal", size(100)),
		str("pod", "pod_port_cd", size(10), required),
		str("podTerminal", "pod_terminal", size(100)),
		str("finalDest", "final_dest", size(100)),
		date("etd", "etd"),
		date("eta", "eta"),
		date("closingDate", "closing_dt"),
		str("closingTime", "closing_time", size(5)),
		integer("cntr20gpQty", "cntr_20gp_qty", rule("gte=0")),
		integer("cntr40gpQty", "cntr_40gp_qty", rule("gte=0")),
		integer("cntr40hcQty", "cntr_40hc_qty", rule("gte=0")),
		integer("totalCntrQty", "total_cntr_qty", rule("gte=0")),
		str("mblNo", "mbl_no", size(30)),
		str("hblNo", "hbl_no", size(30)),
		str("blType", "bl_type", size(20), byDefault("ORIGINAL")),
		text("commodityDesc", "commodity_desc"),
		dec("grossWeight", "gross_weight_kg"),
		dec("volume", "volume_cbm"),
		text("specialRequest", "special_request"),
		flag("dangerousGoods", "dg_yn", byDefault(false)),
		str("dgClass", "dg_class", size(10)),
		str("unNumber", "un_number", size(10)),
		str("imoClass", "imo_class", size(10)),
		str("status", "status", size(20), byDefault("DRAFT")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		carrierLookup("carrier_id"),
		portLookup("pl", "pol_port_cd", "polName"),
		portLookup("pd", "pod_port_cd", "podName"),
	},
	Filters: []resource.FilterSpec{
		eq("bookingType", "booking_type", resource.String),
		eq("carrierId", "carrier_id", resource.Ref),
		eq("shipmentId", "shipment_id", resource.Ref),
		eq("pol", "pol_port_cd", resource.String),
		eq("pod", "pod_port_cd", resource.String),
	},
	SearchColumns: []string{"carrier_booking_no", "shipper_name", "vessel_name"},
	DateColumn:    "etd",
}

// AirBooking is a space reservation with an airline
var AirBooking = &resource.Definition{
	Name:         "air booking",
	Path:         "booking/air",
	Table:        "air_bookings",
	Numbering:    yearly("AB", "-", 4),
	NumberColumn: "booking_no",
	NumberField:  "bookingNo",
	Fields: []resource.Field{
		ref("shipmentId", "shipment_id"),
		str("carrierBookingNo", "carrier_booking_no", size(50)),
		ref("carrierId", "carrier_id"),
		str("flightNo", "flight_no", size(20)),
		date("flightDate", "flight_dt"),
		str("origin", "origin_port_cd", size(10), required),
		str("destination", "dest_port_cd", size(10), required),
		datetime("etd", "etd"),
		datetime("eta", "eta"),
		str("shipperName", "shipper_name", size(200)),
		str("consigneeName", "consignee_name", size(200)),
		text("commodityDesc", "commodity_desc"),
		integer("pkgQty", "pkg_qty", rule("gte=0")),
		str("pkgType", "pkg_type", size(20)),
		dec("grossWeight", "gross_weight_kg"),
		dec("chargeableWeight", "chargeable_weight_kg"),
		dec("volume", "volume_cbm"),
		str("status", "status", size(20), byDefault("DRAFT")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		carrierLookup("carrier_id"),
		portLookup("po", "origin_port_cd", "originName"),
		portLookup("pd", "dest_port_cd", "destinationName"),
	},
	Filters: []resource.FilterSpec{
		eq("carrierId", "carrier_id", resource.Ref),
		eq("shipmentId", "shipment_id", resource.Ref),
		eq("origin", "origin_port_cd", resource.String),
		eq("destination", "dest_port_cd", resource.String),
		contains("flightNo", "flight_no"),
	},
	SearchColumns: []string{"carrier_booking_no", "flight_no"},
	DateColumn:    "etd",
}
