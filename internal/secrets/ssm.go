package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrNotFound means the parameter store has no value under the name.
	ErrNotFound = errors.New("secret not found")
	// ErrAccessDenied means the execution role cannot read the parameter.
	ErrAccessDenied = errors.New("secret access denied")
)

// SSMAPI is the slice of the SSM client the provider needs.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Provider resolves named secrets from SSM Parameter Store.
//
// Values are fetched fresh on every call. Rotated tokens take effect on the
// next invocation without a cache to invalidate.
type Provider struct {
	client SSMAPI
}

func NewProvider(cfg aws.Config) *Provider {
	return &Provider{client: ssm.NewFromConfig(cfg)}
}

func NewProviderWithClient(client SSMAPI) *Provider {
	return &Provider{client: client}
}

// Resolve returns the decrypted value stored under name.
func (p *Provider) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("resolve secret: empty name")
	}

	out, err := p.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var nf *ssmtypes.ParameterNotFound
		if errors.As(err, &nf) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDeniedException" {
			return "", fmt.Errorf("%w: %s", ErrAccessDenied, name)
		}
		return "", fmt.Errorf("ssm GetParameter %s: %w", name, err)
	}

	if out.Parameter == nil || out.Parameter.Value == nil || strings.TrimSpace(*out.Parameter.Value) == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return *out.Parameter.Value, nil
}
