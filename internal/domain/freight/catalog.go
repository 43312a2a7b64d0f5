package freight

import "github.com/fms/backend/internal/domain/resource"

// All returns every resource served under /api. Parents precede the
// children that provision them.
func All() []*resource.Definition {
	return []*resource.Definition{
		Carrier,
		Port,
		Customer,
		Voyage,
		ExchangeRate,
		Shipment,
		SeaBooking,
		AirBooking,
		MasterBL,
		HouseBL,
		MasterAWB,
		HouseAWB,
		SeaBLJob,
		SeaBLContainer,
		SeaBLCharge,
		AirAWBJob,
		CustomsDeclaration,
		ShippingRequest,
		ShippingNotice,
		SeaQuote,
		OrderType,
		SOControl,
		CustomerOrder,
		SeaSchedule,
		AirSchedule,
		AMSFiling,
		ManifestFiling,
		PreAlertSetting,
		PreAlertMailLog,
	}
}

// NewRegistry validates and indexes the freight catalogue
func NewRegistry() (*resource.Registry, error) {
	return resource.NewRegistry(All()...)
}

// Tables returns the distinct tables behind the catalogue in creation order
func Tables() []*resource.Definition {
	seen := make(map[string]bool)
	var out []*resource.Definition
	for _, d := range All() {
		if seen[d.Table] {
			continue
		}
		seen[d.Table] = true
		out = append(out, d)
	}
	return out
}
