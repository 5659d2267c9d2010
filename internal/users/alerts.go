package users

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/otaviopl/infra-agricultura-app/internal/db"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI is the slice of the SNS client the alerts bootstrap needs.
type SNSAPI interface {
	CreateTopic(ctx context.Context, params *sns.CreateTopicInput, optFns ...func(*sns.Options)) (*sns.CreateTopicOutput, error)
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
}

func shortHashUsername(username string) string {
	h := sha1.Sum([]byte(username))
	// 8 bytes -> 16 hex chars, stable and short
	return hex.EncodeToString(h[:8])
}

// EnsureWeatherAlerts ensures:
// - an SNS topic exists for the user
// - an email subscription exists for the user's email (user confirms once)
// - the users table stores alertsTopicArn
//
// Returns topicArn.
func EnsureWeatherAlerts(ctx context.Context, ddb LocationClient, snsClient SNSAPI, username, email string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" {
		return "", nil
	}

	stage := strings.TrimSpace(os.Getenv("ALERTS_STAGE"))
	if stage == "" {
		stage = "dev"
	}

	// If already stored, reuse
	existing, _ := GetAlertsTopicArn(ctx, ddb, username)
	if existing != "" {
		return existing, nil
	}

	// SNS topic names must be simple (no slashes, etc.)
	topicName := fmt.Sprintf("agricultura-weather-alerts-%s-%s", stage, shortHashUsername(username))

	ct, err := snsClient.CreateTopic(ctx, &sns.CreateTopicInput{
		Name: aws.String(topicName),
	})
	if err != nil {
		return "", err
	}
	topicArn := aws.ToString(ct.TopicArn)

	// Subscribe email (requires confirm link click once)
	_, err = snsClient.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn: aws.String(topicArn),
		Protocol: aws.String("email"),
		Endpoint: aws.String(email),
	})
	if err != nil {
		return "", err
	}

	tbl := db.UsersTableName()
	if tbl != "" {
		_, _ = ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(tbl),
			Key: map[string]types.AttributeValue{
				"username": &types.AttributeValueMemberS{Value: username},
			},
			UpdateExpression: aws.String("SET alertsTopicArn = :arn"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":arn": &types.AttributeValueMemberS{Value: topicArn},
			},
		})
	}

	return topicArn, nil
}

func GetAlertsTopicArn(ctx context.Context, ddb LocationClient, username string) (string, error) {
	tbl := db.UsersTableName()
	if tbl == "" || strings.TrimSpace(username) == "" {
		return "", nil
	}

	out, err := ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(tbl),
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: username},
		},
		ProjectionExpression: aws.String("alertsTopicArn"),
	})
	if err != nil || out.Item == nil {
		return "", err
	}

	if v, ok := out.Item["alertsTopicArn"].(*types.AttributeValueMemberS); ok {
		return v.Value, nil
	}
	return "", nil
}
