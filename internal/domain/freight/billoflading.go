package freight

import "github.com/fms/backend/internal/domain/resource"

// MasterBL is the carrier-issued bill of lading
var MasterBL = &resource.Definition{
	Name:         "master B/L",
	Path:         "bl/mbl",
	Table:        "master_bls",
	Numbering:    yearly("MBL", "", 5),
	NumberColumn: "mbl_no",
	NumberField:  "mblNo",
	Fields: []resource.Field{
		ref("shipmentId", "shipment_id"),
		ref("bookingId", "booking_id"),
		ref("carrierId", "carrier_id", required),
		str("vesselName", "vessel_name", size(100)),
		str("voyageNo", "voyage_no", size(30)),
		str("pol", "pol_port_cd", size(10), required),
		str("pod", "pod_port_cd", size(10), required),
		str("placeOfReceipt", "place_of_receipt", size(100)),
		str("placeOfDelivery", "place_of_delivery", size(100)),
		str("finalDest", "final_dest", size(100)),
		date("etd", "etd"),
		date("eta", "eta"),
		date("onBoardDate", "on_board_dt"),
		date("issueDate", "issue_dt"),
		str("issuePlace", "issue_place", size(100)),
		str("shipperName", "shipper_name", size(200)),
		str("consigneeName", "consignee_name", size(200)),
		text("notifyParty", "notify_party"),
		integer("totalPkgQty", "total_pkg_qty", rule("gte=0")),
		str("pkgType", "pkg_type", size(20)),
		dec("grossWeight", "gross_weight_kg"),
		dec("volume", "volume_cbm"),
		text("commodityDesc", "commodity_desc"),
		str("freightTerm", "freight_term", size(20), byDefault("PREPAID")),
		str("blType", "bl_type", size(20), byDefault("ORIGINAL")),
		integer("originalBlCount", "original_bl_count", byDefault(3), rule("gte=0,lte=9")),
		flag("surrender", "surrender_yn", byDefault(false)),
		str("status", "status", size(20), byDefault("DRAFT")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		carrierLookup("carrier_id"),
		portLookup("pl", "pol_port_cd", "polName"),
		portLookup("pd", "pod_port_cd", "podName"),
		documentLookup("sea_bookings", "bk", "booking_id", "booking_no", "bookingNo"),
	},
	Filters: []resource.FilterSpec{
		eq("shipmentId", "shipment_id", resource.Ref),
		eq("bookingId", "booking_id", resource.Ref),
		eq("carrierId", "carrier_id", resource.Ref),
		eq("pol", "pol_port_cd", resource.String),
		eq("pod", "pod_port_cd", resource.String),
	},
	SearchColumns: []string{"vessel_name", "shipper_name"},
	DateColumn:    "etd",
}

// HouseBL is the forwarder-issued bill of lading. Created without a
// shipment, it gets a placeholder SEA shipment in the same transaction.
var HouseBL = &resource.Definition{
	Name:         "house B/L",
	Path:         "bl/hbl",
	Table:        "house_bls",
	Numbering:    yearly("HBL", "", 5),
	NumberColumn: "hbl_no",
	NumberField:  "hblNo",
	Fields: []resource.Field{
		ref("shipmentId", "shipment_id"),
		ref("mblId", "mbl_id"),
		ref("customerId", "customer_id"),
		ref("carrierId", "carrier_id"),
		str("vesselName", "vessel_name", size(100)),
		str("voyageNo", "voyage_no", size(30)),
		str("pol", "pol_port_cd", size(10), required),
		str("pod", "pod_port_cd", size(10), required),
		str("placeOfReceipt", "place_of_receipt", size(100)),
		str("placeOfDelivery", "place_of_delivery", size(100)),
		str("finalDest", "final_dest", size(100)),
		date("etd", "etd"),
		date("eta", "eta"),
		date("onBoardDate", "on_board_dt"),
		date("issueDate", "issue_dt"),
		str("issuePlace", "issue_place", size(100)),
		str("shipperName", "shipper_name", size(200)),
		text("shipperAddress", "shipper_addr"),
		str("consigneeName", "consignee_name", size(200)),
		text("consigneeAddress", "consignee_addr"),
		text("notifyParty", "notify_party"),
		integer("totalPkgQty", "total_pkg_qty", rule("gte=0")),
		str("pkgType", "pkg_type", size(20)),
		dec("grossWeight", "gross_weight_kg"),
		dec("volume", "volume_cbm"),
		text("commodityDesc", "commodity_desc"),
		str("hsCode", "hs_code", size(20)),
		text("marksNos", "marks_nos"),
		str("freightTerm", "freight_term", size(20), byDefault("PREPAID")),
		str("blType", "bl_type", size(20), byDefault("ORIGINAL")),
		integer("originalBlCount", "original_bl_count", byDefault(3), rule("gte=0,lte=9")),
		flag("printed", "print_yn", byDefault(false)),
		flag("surrender", "surrender_yn", byDefault(false)),
		str("status", "status", size(20), byDefault("DRAFT")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		documentLookup("master_bls", "mb", "mbl_id", "mbl_no", "mblNo"),
		customerLookup("customer_id"),
		carrierLookup("carrier_id"),
		portLookup("pl", "pol_port_cd", "polName"),
		portLookup("pd", "pod_port_cd", "podName"),
	},
	Filters: []resource.FilterSpec{
		eq("shipmentId", "shipment_id", resource.Ref),
		eq("mblId", "mbl_id", resource.Ref),
		eq("customerId", "customer_id", resource.Ref),
		eq("carrierId", "carrier_id", resource.Ref),
		eq("pol", "pol_port_cd", resource.String),
		eq("pod", "pod_port_cd", resource.String),
	},
	SearchColumns: []string{"shipper_name", "consignee_name"},
	DateColumn:    "etd",
	Parent:        provisionShipment("SEA", "pol_port_cd", "pod_port_cd"),
}
