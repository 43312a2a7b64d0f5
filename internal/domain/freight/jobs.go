package freight

import "github.com/fms/backend/internal/domain/resource"

// partyFields are the shipper, consignee and notify blocks of a job file
func partyFields() []resource.Field {
	return []resource.Field{
		str("shipperCode", "shipper_cd", size(20)),
		str("shipperName", "shipper_nm", size(200)),
		text("shipperAddress", "shipper_addr"),
		str("consigneeCode", "consignee_cd", size(20)),
		str("consigneeName", "consignee_nm", size(200)),
		text("consigneeAddress", "consignee_addr"),
		str("notifyCode", "notify_cd", size(20)),
		str("notifyName", "notify_nm", size(200)),
		text("notifyAddress", "notify_addr"),
	}
}

// agentFields are the overseas agent and partner references of a job file
func agentFields() []resource.Field {
	return []resource.Field{
		str("agentCode", "agent_cd", size(20)),
		str("agentName", "agent_nm", size(200)),
		str("partnerCode", "partner_cd", size(20)),
		str("partnerName", "partner_nm", size(200)),
		str("lcNo", "lc_no", size(50)),
		str("poNo", "po_no", size(50)),
	}
}

func fields(groups ...[]resource.Field) []resource.Field {
	var out []resource.Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// SeaBLJob is the ocean B/L job file. Exports are numbered SEX-YYYY-NNNN
// and imports SIM-YYYY-NNNN.
var SeaBLJob = &resource.Definition{
	Name:         "sea B/L job",
	Path:         "bl/sea",
	Table:        "ocean_bl_jobs",
	Numbering:    byDirection("SEX", "SIM"),
	NumberColumn: "job_no",
	NumberField:  "jobNo",
	Fields: fields(
		[]resource.Field{
			ioType(),
			str("bookingNo", "booking_no", size(30)),
			str("mblNo", "m_bl_no", size(30)),
			str("hblNo", "h_bl_no", size(30)),
			str("srNo", "sr_no", size(30)),
			str("businessType", "biz_type", size(10), byDefault("SIMPLE"), rule("oneof=SIMPLE CONSOL")),
			str("blType", "bl_type", size(20), byDefault("ORIGINAL")),
			str("status", "status", size(20), byDefault("DRAFT")),
		},
		partyFields(),
		[]resource.Field{
			str("forDeliveryCode", "for_delivery_cd", size(20)),
			str("forDeliveryName", "for_delivery_nm", size(200)),
			text("forDeliveryAddress", "for_delivery_addr"),
			str("placeOfReceipt", "place_of_receipt", size(100)),
			str("lineCode", "line_cd", size(20)),
			str("lineName", "line_nm", size(100)),
			str("portOfLoading", "pol_cd", size(10)),
			str("portOfDischarge", "pod_cd", size(10)),
			str("placeOfDelivery", "place_of_delivery", size(100)),
			str("finalDestination", "final_dest", size(100)),
			str("vesselName", "vessel_nm", size(100)),
			str("voyageNo", "voyage_no", size(30)),
			date("onboardDate", "onboard_dt"),
			date("etd", "etd_dt"),
			date("eta", "eta_dt"),
			str("freightTerm", "freight_term", size(20), byDefault("PREPAID"), rule("oneof=PREPAID COLLECT")),
			str("serviceTerm", "service_term", size(20), byDefault("CY/CY")),
			str("containerType", "container_type", size(10), byDefault("FCL")),
			integer("packageQty", "package_qty", byDefault(0), rule("gte=0")),
			str("packageUnit", "package_unit", size(10), byDefault("PKG")),
			dec("grossWeight", "gross_weight_kg"),
			dec("measurement", "measurement_cbm"),
			dec("rton", "r_ton"),
			str("issuePlace", "issue_place", size(100)),
			date("issueDate", "issue_dt"),
			str("blIssueType", "bl_issue_type", size(20), byDefault("ORIGINAL")),
			integer("noOfOriginalBL", "no_of_original_bl", byDefault(3), rule("gte=0")),
			str("countryCode", "country_cd", size(2)),
			str("regionCode", "region_cd", size(10)),
		},
		agentFields(),
	),
	Lookups: []resource.Lookup{
		portLookup("pl", "pol_cd", "portOfLoadingName"),
		portLookup("pd", "pod_cd", "portOfDischargeName"),
	},
	Filters: []resource.FilterSpec{
		eq("ioType", "io_type", resource.String),
		eq("blType", "bl_type", resource.String),
		eq("businessType", "biz_type", resource.String),
		contains("mblNo", "m_bl_no"),
		contains("hblNo", "h_bl_no"),
	},
	SearchColumns: []string{"m_bl_no", "h_bl_no", "shipper_nm", "consignee_nm"},
	DateColumn:    "onboard_dt",
}

// SeaBLContainer is one container line of a sea B/L job
var SeaBLContainer = &resource.Definition{
	Name:  "sea B/L container",
	Path:  "bl/sea/containers",
	Table: "ocean_bl_containers",
	Fields: []resource.Field{
		ref("blId", "bl_id", required),
		integer("seq", "cntr_seq", byDefault(1), rule("gte=1")),
		str("containerNo", "cntr_no", size(20), upper),
		str("containerType", "cntr_type", size(10)),
		str("seal1No", "seal_1_no", size(30)),
		str("seal2No", "seal_2_no", size(30)),
		str("seal3No", "seal_3_no", size(30)),
		integer("packageQty", "package_qty", byDefault(0), rule("gte=0")),
		str("packageUnit", "package_unit", size(10), byDefault("PKG")),
		dec("grossWeight", "gross_weight_kg"),
		dec("measurement", "measurement_cbm"),
	},
	Lookups: []resource.Lookup{
		documentLookup("ocean_bl_jobs", "bl", "bl_id", "job_no", "jobNo"),
	},
	Filters: []resource.FilterSpec{
		eq("blId", "bl_id", resource.Ref),
	},
	SearchColumns: []string{"cntr_no"},
	Order:         []resource.OrderTerm{{Column: "bl_id"}, {Column: "cntr_seq"}, {Column: resource.ColumnID}},
}

// SeaBLCharge is one freight charge line of a sea B/L job
var SeaBLCharge = &resource.Definition{
	Name:  "sea B/L charge",
	Path:  "bl/sea/charges",
	Table: "ocean_bl_charges",
	Fields: []resource.Field{
		ref("blId", "bl_id", required),
		integer("seq", "charge_seq", byDefault(1), rule("gte=1")),
		str("code", "charge_cd", size(20), required),
		str("charges", "charge_nm", size(100)),
		str("currency", "currency_cd", size(3), upper, byDefault("USD")),
		dec("prepaid", "prepaid_amt", byDefault("0")),
		dec("collect", "collect_amt", byDefault("0")),
	},
	Lookups: []resource.Lookup{
		documentLookup("ocean_bl_jobs", "bl", "bl_id", "job_no", "jobNo"),
	},
	Filters: []resource.FilterSpec{
		eq("blId", "bl_id", resource.Ref),
		eq("currency", "currency_cd", resource.String),
	},
	SearchColumns: []string{"charge_cd", "charge_nm"},
	Order:         []resource.OrderTerm{{Column: "bl_id"}, {Column: "charge_seq"}, {Column: resource.ColumnID}},
}

// AirAWBJob is the air waybill job file. Exports are numbered
// AEX-YYYY-NNNN and imports AIM-YYYY-NNNN.
var AirAWBJob = &resource.Definition{
	Name:         "air AWB job",
	Path:         "bl/air",
	Table:        "air_awb_jobs",
	Numbering:    byDirection("AEX", "AIM"),
	NumberColumn: "job_no",
	NumberField:  "jobNo",
	Fields: fields(
		[]resource.Field{
			ioType(),
			str("bookingNo", "booking_no", size(30)),
			str("mawbNo", "m_awb_no", size(30)),
			str("hawbNo", "h_awb_no", size(30)),
			str("status", "status", size(20), byDefault("DRAFT")),
		},
		partyFields(),
		[]resource.Field{
			str("departure", "departure_cd", size(10)),
			str("arrival", "arrival_cd", size(10)),
			str("flightNo", "flight_no", size(20)),
			date("departureDate", "departure_dt"),
			date("arrivalDate", "arrival_dt"),
			str("wtVal", "wt_val", size(1), byDefault("P"), rule("oneof=P C")),
			str("otherChgs", "other_chgs", size(1), byDefault("P"), rule("oneof=P C")),
			str("currencyCode", "currency_cd", size(3), upper, byDefault("USD")),
			integer("piecesQty", "pieces_qty", byDefault(0), rule("gte=0")),
			dec("grossWeight", "gross_weight_kg"),
			dec("chargeableWeight", "chargeable_weight"),
		},
		agentFields(),
	),
	Lookups: []resource.Lookup{
		portLookup("dp", "departure_cd", "departureName"),
		portLookup("ar", "arrival_cd", "arrivalName"),
	},
	Filters: []resource.FilterSpec{
		eq("ioType", "io_type", resource.String),
		contains("mawbNo", "m_awb_no"),
		contains("hawbNo", "h_awb_no"),
		eq("departure", "departure_cd", resource.String),
		eq("arrival", "arrival_cd", resource.String),
	},
	SearchColumns: []string{"m_awb_no", "h_awb_no", "shipper_nm", "consignee_nm", "flight_no"},
	DateColumn:    "departure_dt",
}
