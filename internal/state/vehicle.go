package state

// VehicleStyle enumerates the body styles the rental and factory offer.
type VehicleStyle string

const (
	VehicleSedan          VehicleStyle = "sedan"
	VehicleSUV            VehicleStyle = "suv"
	VehicleSports         VehicleStyle = "sports"
	VehicleGoldenCarriage VehicleStyle = "golden_carriage"
)

// ParseVehicleStyle validates a style string received from the client.
func ParseVehicleStyle(value string) (VehicleStyle, bool) {
	switch VehicleStyle(value) {
	case VehicleSedan, VehicleSUV, VehicleSports, VehicleGoldenCarriage:
		return VehicleStyle(value), true
	default:
		return "", false
	}
}

// Vehicle is an owned car. Mission vehicles are issued by the two job
// stations and are the only ones that enable capture interactions.
type Vehicle struct {
	ID      string       `json:"id"`
	Style   VehicleStyle `json:"style"`
	Color   string       `json:"color"`
	Mission bool         `json:"mission"`
}
