package agritec

import "strings"

// PlantingWindow is one recommended planting interval.
type PlantingWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PlantingSuggestion is the response of the planting-period endpoint.
type PlantingSuggestion struct {
	PlantType           string           `json:"plantType"`
	BestPlantingPeriods []PlantingWindow `json:"bestPlantingPeriods"`
}

// Seasonal windows for the center-west growing calendar. Crops without a
// dedicated entry get the default spring/late-summer windows.
var plantingCalendar = map[string][]PlantingWindow{
	"soja": {
		{Start: "2024-10-01", End: "2024-11-15"},
		{Start: "2025-03-01", End: "2025-04-15"},
	},
	"milho": {
		{Start: "2024-09-15", End: "2024-11-30"},
		{Start: "2025-01-15", End: "2025-02-28"},
	},
	"feijao": {
		{Start: "2024-11-01", End: "2024-12-15"},
		{Start: "2025-04-01", End: "2025-05-15"},
	},
}

var defaultWindows = []PlantingWindow{
	{Start: "2024-10-01", End: "2024-11-15"},
	{Start: "2025-03-01", End: "2025-04-15"},
}

// SuggestPlantingPeriods returns the recommended planting windows for a
// plant type.
func SuggestPlantingPeriods(plantType string) PlantingSuggestion {
	windows, ok := plantingCalendar[strings.ToLower(strings.TrimSpace(plantType))]
	if !ok {
		windows = defaultWindows
	}
	return PlantingSuggestion{
		PlantType:           plantType,
		BestPlantingPeriods: windows,
	}
}
