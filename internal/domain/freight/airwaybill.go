package freight

import (
	"github.com/fms/backend/internal/domain/numbering"
	"github.com/fms/backend/internal/domain/resource"
)

// awbFields are shared by master and house air waybills
func awbFields() []resource.Field {
	return []resource.Field{
		ref("shipmentId", "shipment_id"),
		ref("carrierId", "carrier_id"),
		str("airlineCode", "airline_code", size(3), upper, rule("alphanum")),
		str("flightNo", "flight_no", size(20)),
		str("origin", "origin_airport_cd", size(10), required),
		str("destination", "dest_airport_cd", size(10), required),
		date("etd", "etd"),
		str("etdTime", "etd_time", size(5)),
		date("eta", "eta"),
		str("etaTime", "eta_time", size(5)),
		date("issueDate", "issue_dt"),
		str("issuePlace", "issue_place", size(100)),
		str("shipperName", "shipper_name", size(200)),
		text("shipperAddress", "shipper_addr"),
		str("consigneeName", "consignee_name", size(200)),
		text("consigneeAddress", "consignee_addr"),
		text("notifyParty", "notify_party"),
		integer("pieces", "pieces", rule("gte=0")),
		dec("grossWeight", "gross_weight_kg"),
		dec("chargeWeight", "charge_weight_kg"),
		dec("volume", "volume_cbm"),
		text("commodityDesc", "commodity_desc"),
		str("hsCode", "hs_code", size(20)),
		str("dimensions", "dimensions", size(200)),
		str("specialHandling", "special_handling", size(100)),
		dec("declaredValue", "declared_value"),
		str("declaredCurrency", "declared_currency", size(3), byDefault("USD")),
		dec("insuranceValue", "insurance_value"),
		dec("freightCharges", "freight_charges"),
		dec("otherCharges", "other_charges"),
		str("paymentTerms", "payment_terms", size(20), byDefault("PREPAID")),
		str("status", "status", size(20), byDefault("DRAFT")),
		text("remarks", "remarks"),
	}
}

func awbLookups() []resource.Lookup {
	return []resource.Lookup{
		carrierLookup("carrier_id"),
		portLookup("po", "origin_airport_cd", "originName"),
		portLookup("pd", "dest_airport_cd", "destinationName"),
	}
}

// MasterAWB is the airline-issued waybill. Its number is the three digit
// airline prefix followed by an eight digit serial.
var MasterAWB = &resource.Definition{
	Name:  "master AWB",
	Path:  "awb/mawb",
	Table: "master_awbs",
	Numbering: &numbering.Scheme{
		PrefixField:   "airlineCode",
		DefaultPrefix: "000",
		Separator:     "-",
		Width:         8,
	},
	NumberColumn: "mawb_no",
	NumberField:  "mawbNo",
	Fields: append(awbFields(),
		str("importType", "import_type", size(10), byDefault("EXPORT"), rule("oneof=EXPORT IMPORT")),
		ref("bookingId", "booking_id"),
		date("atd", "atd"),
		str("atdTime", "atd_time", size(5)),
		date("ata", "ata"),
		str("ataTime", "ata_time", size(5)),
		str("mrnNo", "mrn_no", size(30)),
		str("msn", "msn", size(10)),
		str("agentCode", "agent_code", size(20)),
		str("agentName", "agent_name", size(200)),
		str("customsStatus", "customs_status", size(20)),
	),
	Lookups: append(awbLookups(),
		documentLookup("air_bookings", "bk", "booking_id", "booking_no", "bookingNo"),
	),
	Filters: []resource.FilterSpec{
		eq("shipmentId", "shipment_id", resource.Ref),
		eq("carrierId", "carrier_id", resource.Ref),
		eq("importType", "import_type", resource.String),
		eq("airlineCode", "airline_code", resource.String),
		eq("origin", "origin_airport_cd", resource.String),
		eq("destination", "dest_airport_cd", resource.String),
	},
	SearchColumns: []string{"flight_no", "shipper_name"},
	DateColumn:    "etd",
}

// HouseAWB is the forwarder-issued waybill. Created without a shipment, it
// gets a placeholder AIR shipment in the same transaction.
var HouseAWB = &resource.Definition{
	Name:         "house AWB",
	Path:         "awb/hawb",
	Table:        "house_awbs",
	Numbering:    yearly("HAWB", "", 5),
	NumberColumn: "hawb_no",
	NumberField:  "hawbNo",
	Fields: append(awbFields(),
		ref("mawbId", "mawb_id"),
		ref("customerId", "customer_id"),
	),
	Lookups: append(awbLookups(),
		documentLookup("master_awbs", "ma", "mawb_id", "mawb_no", "mawbNo"),
		customerLookup("customer_id"),
	),
	Filters: []resource.FilterSpec{
		eq("shipmentId", "shipment_id", resource.Ref),
		eq("mawbId", "mawb_id", resource.Ref),
		eq("customerId", "customer_id", resource.Ref),
		eq("carrierId", "carrier_id", resource.Ref),
		eq("origin", "origin_airport_cd", resource.String),
		eq("destination", "dest_airport_cd", resource.String),
	},
	SearchColumns: []string{"flight_no", "shipper_name"},
	DateColumn:    "etd",
	Parent:        provisionShipment("AIR", "origin_airport_cd", "dest_airport_cd"),
}
