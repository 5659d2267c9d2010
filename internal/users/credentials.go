package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/otaviopl/infra-agricultura-app/internal/db"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrUserNotFound means no record exists for the username.
var ErrUserNotFound = errors.New("user not found")

// Record mirrors the credential attributes of a user item.
type Record struct {
	Username     string `dynamodbav:"username"`
	Email        string `dynamodbav:"email"`
	PasswordHash string `dynamodbav:"password"`
	CreatedAt    string `dynamodbav:"createdAt,omitempty"`
}

// CredentialsClient is the slice of the DynamoDB client the credential
// store needs.
type CredentialsClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// PutUser writes the credential attributes for a new user. Existing
// credential attributes under the same username are overwritten; the
// store defines duplicate semantics, not this layer.
func PutUser(ctx context.Context, ddb CredentialsClient, rec Record) error {
	if strings.TrimSpace(rec.Username) == "" {
		return fmt.Errorf("empty username")
	}

	table := db.UsersTableName()
	if table == "" {
		return fmt.Errorf("USERS_TABLE not configured")
	}

	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal user item: %w", err)
	}

	if _, err := ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamodb PutItem: %w", err)
	}
	return nil
}

// GetUser loads the credential attributes for username.
func GetUser(ctx context.Context, ddb CredentialsClient, username string) (*Record, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("empty username")
	}

	table := db.UsersTableName()
	if table == "" {
		return nil, fmt.Errorf("USERS_TABLE not configured")
	}

	out, err := ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: username},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal user item: %w", err)
	}
	if rec.PasswordHash == "" {
		// Location-only item, never registered.
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return &rec, nil
}
