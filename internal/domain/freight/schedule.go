package freight

import "github.com/fms/backend/internal/domain/resource"

// SeaSchedule is a vessel port-pair sailing. Created without a voyage, it
// gets one in the same transaction.
var SeaSchedule = &resource.Definition{
	Name:  "sea schedule",
	Path:  "schedule/sea",
	Table: "sea_schedules",
	Fields: []resource.Field{
		ref("voyageId", "voyage_id"),
		ref("carrierId", "carrier_id", required),
		str("vesselName", "vessel_name", size(100)),
		str("voyageNo", "voyage_no", size(30)),
		str("pol", "pol_port_cd", size(10), required),
		str("polTerminal", "pol_terminal", size(100)),
		datetime("etd", "etd"),
		datetime("atd", "atd"),
		datetime("cutOff", "cut_off"),
		datetime("cargoCutOff", "cargo_cut_off"),
		str("pod", "pod_port_cd", size(10), required),
		str("podTerminal", "pod_terminal", size(100)),
		datetime("eta", "eta"),
		datetime("ata", "ata"),
		integer("transitDays", "transit_days", rule("gte=0")),
		str("frequency", "frequency", size(20), byDefault("WEEKLY")),
		str("status", "status", size(20), byDefault("SCHEDULED")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		carrierLookup("carrier_id"),
		portLookup("pl", "pol_port_cd", "polName"),
		portLookup("pd", "pod_port_cd", "podName"),
	},
	Filters: []resource.FilterSpec{
		eq("voyageId", "voyage_id", resource.Ref),
		eq("carrierId", "carrier_id", resource.Ref),
		eq("pol", "pol_port_cd", resource.String),
		eq("pod", "pod_port_cd", resource.String),
	},
	SearchColumns: []string{"vessel_name", "voyage_no"},
	DateColumn:    "etd",
	Order:         byEtd,
	Parent: &resource.ParentProvision{
		Field:  "voyageId",
		Parent: Voyage,
		Seed: func(child resource.Record) resource.Record {
			seed := resource.Record{"status": "OPEN"}
			copyColumn(seed, "vessel_name", child, "vessel_name")
			copyColumn(seed, "voyage_no", child, "voyage_no")
			copyColumn(seed, "carrier_id", child, "carrier_id")
			return seed
		},
	},
}

// AirSchedule is a recurring flight between two airports
var AirSchedule = &resource.Definition{
	Name:  "air schedule",
	Path:  "schedule/air",
	Table: "air_schedules",
	Fields: []resource.Field{
		ref("carrierId", "carrier_id", required),
		str("flightNo", "flight_no", size(20)),
		str("origin", "origin_port_cd", size(10), required),
		str("originTerminal", "origin_terminal", size(100)),
		datetime("etd", "etd"),
		str("destination", "dest_port_cd", size(10), required),
		str("destTerminal", "dest_terminal", size(100)),
		datetime("eta", "eta"),
		str("aircraftType", "aircraft_type", size(30)),
		integer("transitHours", "transit_hours", rule("gte=0")),
		str("frequency", "frequency", size(20), byDefault("DAILY")),
		str("status", "status", size(20), byDefault("SCHEDULED")),
		text("remarks", "remarks"),
	},
	Lookups: []resource.Lookup{
		carrierLookup("carrier_id"),
		portLookup("po", "origin_port_cd", "originName"),
		portLookup("pd", "dest_port_cd", "destinationName"),
	},
	Filters: []resource.FilterSpec{
		eq("carrierId", "carrier_id", resource.Ref),
		eq("origin", "origin_port_cd", resource.String),
		eq("destination", "dest_port_cd", resource.String),
		contains("flightNo", "flight_no"),
	},
	SearchColumns: []string{"flight_no"},
	DateColumn:    "etd",
	Order:         byEtd,
}
