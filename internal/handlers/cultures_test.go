package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/otaviopl/infra-agricultura-app/internal/agritec"
)

type fakeCatalog struct {
	calls    int
	cultures []agritec.Culture
	err      error
}

func (f *fakeCatalog) ListEligibleCultures(ctx context.Context) ([]agritec.Culture, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.cultures, nil
}

func newCulturesHandler(secrets *fakeSecrets, catalog *fakeCatalog) *CulturesHandler {
	return &CulturesHandler{
		Secrets: secrets,
		NewCatalog: func(token string) CultureLister {
			return catalog
		},
	}
}

func culturesGET() events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{}
	req.RequestContext.HTTP.Method = "GET"
	return req
}

func TestCultures(t *testing.T) {
	secrets := &fakeSecrets{values: map[string]string{"/embrapa-api/token": "tok"}}
	catalog := &fakeCatalog{cultures: []agritec.Culture{
		{ID: "1", Name: "Soja", HarvestSeason: "2024/2025", CropType: "sequeiro", ZoningEligible: true},
	}}
	h := newCulturesHandler(secrets, catalog)

	resp, err := h.Handle(context.Background(), culturesGET())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	var out struct {
		Cultures []agritec.Culture `json:"cultures"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if len(out.Cultures) != 1 || out.Cultures[0].Name != "Soja" {
		t.Errorf("cultures = %+v", out.Cultures)
	}
}

func TestCultures_SecretUnavailable(t *testing.T) {
	secrets := &fakeSecrets{values: map[string]string{}}
	catalog := &fakeCatalog{}
	h := newCulturesHandler(secrets, catalog)

	resp, err := h.Handle(context.Background(), culturesGET())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if catalog.calls != 0 {
		t.Error("expected no catalog call without a token")
	}
}

func TestCultures_UpstreamError(t *testing.T) {
	secrets := &fakeSecrets{values: map[string]string{"/embrapa-api/token": "tok"}}
	catalog := &fakeCatalog{err: &agritec.UpstreamError{Status: 503, Body: "maintenance"}}
	h := newCulturesHandler(secrets, catalog)

	resp, err := h.Handle(context.Background(), culturesGET())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 502 {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}
