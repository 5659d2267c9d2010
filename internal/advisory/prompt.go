package advisory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/otaviopl/infra-agricultura-app/internal/agritec"
	"github.com/otaviopl/infra-agricultura-app/internal/climate"
)

// SystemInstruction is the fixed system message sent with every
// composition request.
const SystemInstruction = "You are an agricultural assistant. Based on the provided climate data, give details on how to plant better."

// Condition is one weather variable as seen by the composer: a value, or
// unavailable when the variable's fetch failed.
type Condition struct {
	Value       float64
	Unavailable bool
}

// Conditions maps each weather variable to its composer view.
type Conditions map[climate.Variable]Condition

// ConditionsFromBundle converts an aggregated bundle into composer input.
// Errored entries become unavailable conditions rather than being dropped,
// so the prompt always accounts for every variable.
func ConditionsFromBundle(b climate.Bundle) Conditions {
	conds := make(Conditions, len(b))
	for v, res := range b {
		if res.Err != "" {
			conds[v] = Condition{Unavailable: true}
			continue
		}
		val, ok := extractValue(res.Data)
		if !ok {
			conds[v] = Condition{Unavailable: true}
			continue
		}
		conds[v] = Condition{Value: val}
	}
	return conds
}

// extractValue pulls the measurement out of a raw ClimAPI document. The
// upstream returns either an object or an array of objects carrying a
// "valor" field.
func extractValue(raw json.RawMessage) (float64, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		return valueField(obj)
	}
	var arr []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) > 0 {
		return valueField(arr[0])
	}
	return 0, false
}

func valueField(obj map[string]json.RawMessage) (float64, bool) {
	for _, key := range []string{"valor", "value"} {
		if v, ok := obj[key]; ok {
			var f float64
			if err := json.Unmarshal(v, &f); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// BuildPrompt renders the deterministic user prompt: one line per weather
// variable in the fixed variable order, then a bulleted culture listing.
// An empty culture list renders an empty section, never an error.
func BuildPrompt(conds Conditions, cultures []agritec.Culture) string {
	var b strings.Builder

	b.WriteString("Given the conditions:\n")
	for _, v := range climate.Variables {
		c, ok := conds[v]
		if !ok || c.Unavailable {
			fmt.Fprintf(&b, "- %s: unavailable\n", v.Label())
			continue
		}
		fmt.Fprintf(&b, "- %s: %g\n", v.Label(), c.Value)
	}

	b.WriteString("\nCultures eligible for agronomic zoning:\n")
	for _, c := range cultures {
		fmt.Fprintf(&b, "- %s (%s, %s)\n", c.Name, c.HarvestSeason, c.CropType)
	}

	b.WriteString("\nWrite a friendly interpretation for farmers explaining how these conditions affect planting.")
	return b.String()
}
