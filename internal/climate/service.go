package climate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrValidation means the request was malformed; no external call was made.
	ErrValidation = errors.New("invalid request")
	// ErrAuthUnavailable means the upstream API token could not be resolved.
	// It fails the whole request: without a token no variable can be fetched.
	ErrAuthUnavailable = errors.New("authentication unavailable")
)

// SecretResolver resolves a named secret, fresh on every call.
type SecretResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// VariableFetcher is the per-variable slice of Client used by the bundle
// service, narrowed for test fakes.
type VariableFetcher interface {
	FetchVariable(ctx context.Context, v Variable, date, longitude, latitude string) (json.RawMessage, error)
}

// VariableResult is one entry of a Bundle: either the raw upstream document
// or an error payload. It marshals to the upstream JSON on success and to
// {"error": "..."} on failure.
type VariableResult struct {
	Data json.RawMessage
	Err  string
}

func (r VariableResult) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(map[string]string{"error": r.Err})
	}
	return r.Data, nil
}

// Bundle holds exactly one entry per requested variable. A variable's
// failure never removes its key; it becomes an error payload instead.
type Bundle map[Variable]VariableResult

// BundleRequest is the validated input of a bundle fetch.
type BundleRequest struct {
	Longitude string
	Latitude  string
	Date      string
}

func (r BundleRequest) validate() error {
	if strings.TrimSpace(r.Longitude) == "" || strings.TrimSpace(r.Latitude) == "" || strings.TrimSpace(r.Date) == "" {
		return fmt.Errorf("%w: longitude, latitude, and date are required", ErrValidation)
	}
	lon, err := strconv.ParseFloat(r.Longitude, 64)
	if err != nil || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude must be a number in [-180, 180]", ErrValidation)
	}
	lat, err := strconv.ParseFloat(r.Latitude, 64)
	if err != nil || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be a number in [-90, 90]", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return nil
}

// TokenParamName returns the SSM parameter holding the ClimAPI token.
func TokenParamName() string {
	if v := strings.TrimSpace(os.Getenv("CLIMAPI_TOKEN_PARAM")); v != "" {
		return v
	}
	return "/embrapa-api/token"
}

// Service aggregates the fixed variable set into a Bundle for one request.
type Service struct {
	secrets    SecretResolver
	newFetcher func(token string) VariableFetcher
}

func NewService(secrets SecretResolver) *Service {
	return &Service{
		secrets: secrets,
		newFetcher: func(token string) VariableFetcher {
			return NewClient(token)
		},
	}
}

// NewServiceWithFetcher injects a fetcher factory; used by tests.
func NewServiceWithFetcher(secrets SecretResolver, newFetcher func(token string) VariableFetcher) *Service {
	return &Service{secrets: secrets, newFetcher: newFetcher}
}

// FetchBundle validates the request, resolves the API token once, then
// fetches all variables concurrently. Per-variable failures are recorded in
// the bundle; only validation or token resolution fails the whole request.
func (s *Service) FetchBundle(ctx context.Context, req BundleRequest) (Bundle, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	token, err := s.secrets.Resolve(ctx, TokenParamName())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}

	fetcher := s.newFetcher(token)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	bundle := make(Bundle, len(Variables))

	for _, v := range Variables {
		wg.Add(1)
		go func(v Variable) {
			defer wg.Done()

			data, err := fetcher.FetchVariable(ctx, v, req.Date, req.Longitude, req.Latitude)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				bundle[v] = VariableResult{Err: err.Error()}
				return
			}
			bundle[v] = VariableResult{Data: data}
		}(v)
	}

	wg.Wait()
	return bundle, nil
}
