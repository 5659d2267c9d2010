package handlers

import (
	"context"
	"encoding/json"
	"testing"
)

func TestPlantingPeriods(t *testing.T) {
	resp, err := PlantingPeriods(context.Background(), postJSON(`{"latitude":-15.8,"longitude":-47.9,"plantType":"soja"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	var out struct {
		PlantType           string `json:"plantType"`
		BestPlantingPeriods []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"bestPlantingPeriods"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if out.PlantType != "soja" || len(out.BestPlantingPeriods) == 0 {
		t.Errorf("suggestion = %+v", out)
	}
}

func TestPlantingPeriods_MissingFields(t *testing.T) {
	for _, body := range []string{"", `{}`, `{"latitude":-15.8,"longitude":-47.9}`, `{"plantType":"soja"}`} {
		resp, err := PlantingPeriods(context.Background(), postJSON(body))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != 400 {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}
