package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

type fakeSSM struct {
	calls  int
	values map[string]string
	err    error
}

func (f *fakeSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[aws.ToString(params.Name)]
	if !ok {
		return nil, &ssmtypes.ParameterNotFound{}
	}
	return &ssm.GetParameterOutput{
		Parameter: &ssmtypes.Parameter{Value: aws.String(v)},
	}, nil
}

func TestResolve(t *testing.T) {
	f := &fakeSSM{values: map[string]string{"/embrapa-api/token": "tok-123"}}
	p := NewProviderWithClient(f)

	got, err := p.Resolve(context.Background(), "/embrapa-api/token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "tok-123" {
		t.Errorf("Resolve = %q, want %q", got, "tok-123")
	}
}

func TestResolve_NotFound(t *testing.T) {
	p := NewProviderWithClient(&fakeSSM{values: map[string]string{}})

	_, err := p.Resolve(context.Background(), "/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_EmptyName(t *testing.T) {
	f := &fakeSSM{values: map[string]string{}}
	p := NewProviderWithClient(f)

	if _, err := p.Resolve(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty name")
	}
	if f.calls != 0 {
		t.Errorf("expected no SSM call for empty name, got %d", f.calls)
	}
}

func TestResolve_NoCaching(t *testing.T) {
	f := &fakeSSM{values: map[string]string{"weather-api": "k1"}}
	p := NewProviderWithClient(f)

	for i := 0; i < 3; i++ {
		if _, err := p.Resolve(context.Background(), "weather-api"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if f.calls != 3 {
		t.Errorf("expected a fresh fetch per call, got %d calls", f.calls)
	}
}
