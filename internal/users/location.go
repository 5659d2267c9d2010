package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/otaviopl/infra-agricultura-app/internal/db"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrLocationNotFound means the user has no stored location attributes.
var ErrLocationNotFound = errors.New("location not found")

// Location is the geolocation a user has registered for advisory lookups.
type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationClient is the slice of the DynamoDB client the location store needs.
type LocationClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// GetLocation fetches the stored location for username.
func GetLocation(ctx context.Context, ddb LocationClient, username string) (*Location, error) {
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
		ProjectionExpression: aws.String("address, latitude, longitude"),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, username)
	}

	loc := &Location{}
	if v, ok := out.Item["address"].(*types.AttributeValueMemberS); ok {
		loc.Address = v.Value
	}
	lat, okLat := numberAttr(out.Item["latitude"])
	lon, okLon := numberAttr(out.Item["longitude"])
	if !okLat || !okLon {
		// A credentials-only item exists but location was never upserted.
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, username)
	}
	loc.Latitude = lat
	loc.Longitude = lon
	return loc, nil
}

// UpsertLocation overwrites the location attributes for username
// unconditionally (last-writer-wins) and returns the updated fields.
func UpsertLocation(ctx context.Context, ddb LocationClient, username string, loc Location) (*Location, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("empty username")
	}

	table := db.UsersTableName()
	if table == "" {
		return nil, fmt.Errorf("USERS_TABLE not configured")
	}

	out, err := ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: username},
		},
		UpdateExpression: aws.String("SET address = :address, latitude = :latitude, longitude = :longitude"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":address":   &types.AttributeValueMemberS{Value: loc.Address},
			":latitude":  &types.AttributeValueMemberN{Value: strconv.FormatFloat(loc.Latitude, 'f', -1, 64)},
			":longitude": &types.AttributeValueMemberN{Value: strconv.FormatFloat(loc.Longitude, 'f', -1, 64)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb UpdateItem: %w", err)
	}

	updated := &Location{Address: loc.Address, Latitude: loc.Latitude, Longitude: loc.Longitude}
	if v, ok := out.Attributes["address"].(*types.AttributeValueMemberS); ok {
		updated.Address = v.Value
	}
	if n, ok := numberAttr(out.Attributes["latitude"]); ok {
		updated.Latitude = n
	}
	if n, ok := numberAttr(out.Attributes["longitude"]); ok {
		updated.Longitude = n
	}
	return updated, nil
}

func numberAttr(av types.AttributeValue) (float64, bool) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
