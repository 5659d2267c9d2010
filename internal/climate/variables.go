package climate

// Variable is one named environmental measurement exposed by the ClimAPI
// NCEP-GFS dataset. The string value is the upstream variable code and is
// used as-is in request paths and response keys.
type Variable string

const (
	MaxTemperature           Variable = "tmax2m"
	MinTemperature           Variable = "tmin2m"
	AccumulatedPrecipitation Variable = "apcpsfc"
	WindGustSpeed            Variable = "gustsfc"
	RelativeHumidity         Variable = "rh2m"
	SolarRadiation           Variable = "sunsdsfc"
	SoilMoisture             Variable = "soill0_10cm"
)

// Variables is the fixed set fetched for every bundle request.
var Variables = []Variable{
	MaxTemperature,
	MinTemperature,
	AccumulatedPrecipitation,
	WindGustSpeed,
	RelativeHumidity,
	SolarRadiation,
	SoilMoisture,
}

// Label returns the human-readable description used when rendering a
// variable in advisory prompts.
func (v Variable) Label() string {
	switch v {
	case MaxTemperature:
		return "Maximum temperature (°C)"
	case MinTemperature:
		return "Minimum temperature (°C)"
	case AccumulatedPrecipitation:
		return "Accumulated precipitation (mm)"
	case WindGustSpeed:
		return "Wind gust speed (m/s)"
	case RelativeHumidity:
		return "Relative humidity (%)"
	case SolarRadiation:
		return "Solar radiation (W/m²)"
	case SoilMoisture:
		return "Soil moisture (%)"
	default:
		return string(v)
	}
}
