package freight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fms/backend/internal/domain/resource"
	"github.com/fms/backend/internal/domain/shared"
)

var may2026 = time.Date(2026, 5, 14, 9, 30, 0, 0, time.UTC)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	for _, path := range []string{
		"booking/sea", "booking/air", "bl/mbl", "bl/hbl", "awb/mawb", "awb/hawb",
		"customs/sea", "sr/sea", "sn/sea", "quote/sea", "schedule/sea", "schedule/air",
		"ams/sea", "manifest/sea", "pre-alert/settings", "pre-alert/mail-log",
		"bl/sea", "bl/sea/containers", "bl/sea/charges", "bl/air", "exchange-rate",
		"oms/customer-order", "oms/order-type", "oms/so-control",
	} {
		_, ok := reg.Lookup(path)
		assert.True(t, ok, path)
	}
}

func TestTables_SharedTableListedOnce(t *testing.T) {
	count := 0
	for _, d := range Tables() {
		if d.Table == "ams_filings" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestParentsPrecedeChildren(t *testing.T) {
	pos := make(map[*resource.Definition]int)
	for i, d := range All() {
		pos[d] = i
	}
	for _, d := range All() {
		if d.Parent == nil {
			continue
		}
		parent, ok := pos[d.Parent.Parent]
		require.True(t, ok, d.Path)
		assert.Less(t, parent, pos[d], d.Path)
	}
}

func TestSeaBooking_Defaults(t *testing.T) {
	rec, err := SeaBooking.DecodeCreate(resource.Payload{
		"pol":         "KRPUS",
		"pod":         "USLAX",
		"vesselName":  "EVER GIVEN",
		"voyageNo":    "VOY001",
		"cntr40hcQty": 2,
	}, may2026)
	require.NoError(t, err)

	assert.Equal(t, "DRAFT", rec["status"])
	assert.Equal(t, int64(2), rec["cntr_40hc_qty"])
	_, hasTotal := rec["total_cntr_qty"]
	assert.False(t, hasTotal)

	b := SeaBooking.Numbering.BucketFor(SeaBooking.DynamicPrefix(rec), may2026)
	assert.Equal(t, "SB-2026-0001", SeaBooking.Numbering.Format(b, 1))
}

func TestSeaSchedule_CarrierRequired(t *testing.T) {
	_, err := SeaSchedule.DecodeCreate(resource.Payload{"pol": "KRPUS", "pod": "USLAX"}, may2026)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Contains(t, err.Error(), "carrierId is required")
}

func TestHouseBL_ShipmentIsProvisioned(t *testing.T) {
	rec, err := HouseBL.DecodeCreate(resource.Payload{
		"pol":        "KRPUS",
		"pod":        "USLAX",
		"customerId": 7,
		"etd":        "2026-05-20",
	}, may2026)
	require.NoError(t, err)

	seed := HouseBL.Parent.Seed(rec)
	assert.Equal(t, "SEA", seed["transport_mode"])
	assert.Equal(t, "KRPUS", seed["origin_port_cd"])
	assert.Equal(t, "USLAX", seed["dest_port_cd"])
	assert.Equal(t, int64(7), seed["customer_id"])
	assert.Equal(t, "PENDING", seed["status"])
	assert.NotNil(t, seed["etd"])
}

func TestHouseAWB_SeedsAirShipment(t *testing.T) {
	rec, err := HouseAWB.DecodeCreate(resource.Payload{"origin": "ICN", "destination": "LAX"}, may2026)
	require.NoError(t, err)

	seed := HouseAWB.Parent.Seed(rec)
	assert.Equal(t, "AIR", seed["transport_mode"])
	assert.Equal(t, "ICN", seed["origin_port_cd"])
	assert.Equal(t, "LAX", seed["dest_port_cd"])
}

func TestMasterAWB_AirlinePrefix(t *testing.T) {
	rec, err := MasterAWB.DecodeCreate(resource.Payload{
		"origin": "ICN", "destination": "LAX", "airlineCode": "180",
	}, may2026)
	require.NoError(t, err)

	b := MasterAWB.Numbering.BucketFor(MasterAWB.DynamicPrefix(rec), may2026)
	assert.Equal(t, "180-00000001", MasterAWB.Numbering.Format(b, 1))

	rec, err = MasterAWB.DecodeCreate(resource.Payload{"origin": "ICN", "destination": "LAX"}, may2026)
	require.NoError(t, err)
	b = MasterAWB.Numbering.BucketFor(MasterAWB.DynamicPrefix(rec), may2026)
	assert.Equal(t, "000-00000001", MasterAWB.Numbering.Format(b, 1))
}

func TestMasterAWB_AirlineCodeStoredAsNumbered(t *testing.T) {
	rec, err := MasterAWB.DecodeCreate(resource.Payload{
		"origin": "ICN", "destination": "LAX", "airlineCode": "ke",
	}, may2026)
	require.NoError(t, err)
	assert.Equal(t, "KE", rec["airline_code"])

	b := MasterAWB.Numbering.BucketFor(MasterAWB.DynamicPrefix(rec), may2026)
	assert.Equal(t, "KE-00000001", MasterAWB.Numbering.Format(b, 1))

	upd, err := MasterAWB.DecodeUpdate(resource.Payload{"airlineCode": "oz"})
	require.NoError(t, err)
	assert.Equal(t, "OZ", upd["airline_code"])
}

func TestJobFiles_PrefixFollowsDirection(t *testing.T) {
	tests := []struct {
		def    *resource.Definition
		ioType any
		want   string
	}{
		{SeaBLJob, "OUT", "SEX-2026-0001"},
		{SeaBLJob, "in", "SIM-2026-0001"},
		{SeaBLJob, nil, "SEX-2026-0001"},
		{AirAWBJob, "OUT", "AEX-2026-0001"},
		{AirAWBJob, "IN", "AIM-2026-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := resource.Payload{"shipperName": "ACME"}
			if tt.ioType != nil {
				p["ioType"] = tt.ioType
			}
			rec, err := tt.def.DecodeCreate(p, may2026)
			require.NoError(t, err)

			b := tt.def.Numbering.BucketFor(tt.def.DynamicPrefix(rec), may2026)
			assert.Equal(t, tt.want, tt.def.Numbering.Format(b, 1))
		})
	}

	_, err := SeaBLJob.DecodeCreate(resource.Payload{"ioType": "TRANSIT"}, may2026)
	assert.True(t, shared.IsValidation(err))
}

func TestSeaBLJob_Defaults(t *testing.T) {
	rec, err := SeaBLJob.DecodeCreate(resource.Payload{"ioType": "in"}, may2026)
	require.NoError(t, err)

	assert.Equal(t, "IN", rec["io_type"])
	assert.Equal(t, "SIMPLE", rec["biz_type"])
	assert.Equal(t, "CY/CY", rec["service_term"])
	assert.Equal(t, int64(3), rec["no_of_original_bl"])
	assert.Equal(t, "DRAFT", rec["status"])
}

func TestSeaBLLines_RequireJob(t *testing.T) {
	_, err := SeaBLContainer.DecodeCreate(resource.Payload{"containerNo": "msku1234567"}, may2026)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blId is required")

	rec, err := SeaBLContainer.DecodeCreate(resource.Payload{"blId": 4, "containerNo": "msku1234567"}, may2026)
	require.NoError(t, err)
	assert.Equal(t, "MSKU1234567", rec["cntr_no"])
	assert.Equal(t, int64(1), rec["cntr_seq"])

	_, err = SeaBLCharge.DecodeCreate(resource.Payload{"blId": 4}, may2026)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code is required")
	assert.Equal(t, "cntr_seq", SeaBLContainer.OrderTerms()[1].Column)
}

func TestCustomerOrder_DailyNumber(t *testing.T) {
	rec, err := CustomerOrder.DecodeCreate(resource.Payload{"customerCode": "C001"}, may2026)
	require.NoError(t, err)
	assert.Equal(t, "FORWARDING", rec["biz_type"])

	b := CustomerOrder.Numbering.BucketFor(CustomerOrder.DynamicPrefix(rec), may2026)
	assert.Equal(t, "20260514", b.Period)
	assert.Equal(t, "CO20260514-0001", CustomerOrder.Numbering.Format(b, 1))
}

func TestOMSMaster_CodesUpperCased(t *testing.T) {
	rec, err := OrderType.DecodeCreate(resource.Payload{"orderTypeCode": "fwd", "orderTypeName": "Forwarding"}, may2026)
	require.NoError(t, err)
	assert.Equal(t, "FWD", rec["order_type_code"])
	assert.NotNil(t, rec["is_active"])

	rec, err = SOControl.DecodeCreate(resource.Payload{"controlCode": "c1", "controlName": "Default"}, may2026)
	require.NoError(t, err)
	assert.Equal(t, "C1", rec["control_code"])
	assert.Equal(t, "SEQUENTIAL", rec["method_type"])
}

func TestExchangeRate_DefaultsToToday(t *testing.T) {
	rec, err := ExchangeRate.DecodeCreate(resource.Payload{"currencyCode": "usd", "dealBasR": "1445.00"}, may2026)
	require.NoError(t, err)
	assert.Equal(t, "USD", rec["currency_code"])
	assert.Equal(t, time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC), rec["rate_date"])
	assert.False(t, ExchangeRate.SoftDeletes())
}

func TestFilings_ShareTableWithFixedType(t *testing.T) {
	assert.Equal(t, AMSFiling.Table, ManifestFiling.Table)
	assert.Equal(t, FilingAMS, AMSFiling.Fixed["ams_type"])
	assert.Equal(t, FilingManifest, ManifestFiling.Fixed["ams_type"])
	assert.False(t, AMSFiling.SoftDeletes())
	assert.False(t, PreAlertMailLog.SoftDeletes())
	assert.True(t, SeaBooking.SoftDeletes())
}

func TestSchedules_OrderedByDeparture(t *testing.T) {
	for _, d := range []*resource.Definition{SeaSchedule, AirSchedule} {
		terms := d.OrderTerms()
		require.NotEmpty(t, terms)
		assert.Equal(t, "etd", terms[0].Column)
		assert.False(t, terms[0].Desc)
	}
	assert.True(t, SeaBooking.OrderTerms()[0].Desc)
}
