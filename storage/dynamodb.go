package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/aurapaste/aurapaste/models"
)

const dynamoOpTimeout = 10 * time.Second

// GSI names the table must carry for the listing queries.
const (
	authorIndex     = "author_id-index"
	visibilityIndex = "visibility-index"
)

// DynamoStore implements PasteStore using DynamoDB. Used in Lambda mode.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// NewDynamoStore creates a new DynamoDB storage backend.
func NewDynamoStore(tableName, region string) (*DynamoStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &DynamoStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

// Insert persists a new paste. The attribute_not_exists condition makes the
// table the authority on identifier uniqueness.
func (d *DynamoStore) Insert(ctx context.Context, paste *models.Paste) error {
	ctx, cancel := context.WithTimeout(ctx, dynamoOpTimeout)
	defer cancel()

	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.tableName),
		Item:                pasteToItem(paste),
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, paste.ID)
	}
	return mapDynamoError(err)
}

// Get retrieves a paste by its ID.
func (d *DynamoStore) Get(ctx context.Context, id string) (*models.Paste, error) {
	ctx, cancel := context.WithTimeout(ctx, dynamoOpTimeout)
	defer cancel()

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, mapDynamoError(err)
	}
	if result.Item == nil {
		return nil, nil
	}
	return itemToPaste(result.Item), nil
}

// IncrementViewCount bumps the counter with a native ADD and returns the
// updated item. The attribute_exists guard keeps an increment from creating
// a phantom record for an unknown ID.
func (d *DynamoStore) IncrementViewCount(ctx context.Context, id string) (*models.Paste, error) {
	ctx, cancel := context.WithTimeout(ctx, dynamoOpTimeout)
	defer cancel()

	result, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("ADD view_count :inc"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inc": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if isConditionFailed(err) {
		return nil, nil
	}
	if err != nil {
		return nil, mapDynamoError(err)
	}
	return itemToPaste(result.Attributes), nil
}

// ListByAuthor returns all pastes owned by authorID via the author GSI.
func (d *DynamoStore) ListByAuthor(ctx context.Context, authorID string) ([]*models.Paste, error) {
	return d.queryIndex(ctx, authorIndex, "author_id", authorID)
}

// ListByVisibility returns all pastes with the given visibility via the
// visibility GSI.
func (d *DynamoStore) ListByVisibility(ctx context.Context, visibility models.Visibility) ([]*models.Paste, error) {
	return d.queryIndex(ctx, visibilityIndex, "visibility", string(visibility))
}

func (d *DynamoStore) queryIndex(ctx context.Context, index, key, value string) ([]*models.Paste, error) {
	ctx, cancel := context.WithTimeout(ctx, dynamoOpTimeout)
	defer cancel()

	var pastes []*models.Paste
	var startKey map[string]types.AttributeValue
	for {
		result, err := d.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(d.tableName),
			IndexName:              aws.String(index),
			KeyConditionExpression: aws.String("#k = :v"),
			ExpressionAttributeNames: map[string]string{
				"#k": key,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":v": &types.AttributeValueMemberS{Value: value},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, mapDynamoError(err)
		}
		for _, item := range result.Items {
			pastes = append(pastes, itemToPaste(item))
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}
	return pastes, nil
}

// Close is a no-op for DynamoDB.
func (d *DynamoStore) Close() error {
	return nil
}

// pasteToItem converts a Paste to a DynamoDB item.
func pasteToItem(paste *models.Paste) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"id":          &types.AttributeValueMemberS{Value: paste.ID},
		"title":       &types.AttributeValueMemberS{Value: paste.Title},
		"content":     &types.AttributeValueMemberS{Value: paste.Content},
		"language":    &types.AttributeValueMemberS{Value: string(paste.Language)},
		"author_name": &types.AttributeValueMemberS{Value: paste.AuthorName},
		"visibility":  &types.AttributeValueMemberS{Value: string(paste.Visibility)},
		"created_at":  &types.AttributeValueMemberS{Value: paste.CreatedAt.UTC().Format(time.RFC3339Nano)},
		"view_count":  &types.AttributeValueMemberN{Value: strconv.FormatInt(paste.ViewCount, 10)},
		"url":         &types.AttributeValueMemberS{Value: paste.URL},
	}
	if paste.AuthorID != "" {
		item["author_id"] = &types.AttributeValueMemberS{Value: paste.AuthorID}
	}
	return item
}

// itemToPaste converts a DynamoDB item back to a Paste model.
func itemToPaste(item map[string]types.AttributeValue) *models.Paste {
	paste := &models.Paste{}

	if v, ok := item["id"].(*types.AttributeValueMemberS); ok {
		paste.ID = v.Value
	}
	if v, ok := item["title"].(*types.AttributeValueMemberS); ok {
		paste.Title = v.Value
	}
	if v, ok := item["content"].(*types.AttributeValueMemberS); ok {
		paste.Content = v.Value
	}
	if v, ok := item["language"].(*types.AttributeValueMemberS); ok {
		paste.Language = models.Language(v.Value)
	}
	if v, ok := item["author_id"].(*types.AttributeValueMemberS); ok {
		paste.AuthorID = v.Value
	}
	if v, ok := item["author_name"].(*types.AttributeValueMemberS); ok {
		paste.AuthorName = v.Value
	}
	if v, ok := item["visibility"].(*types.AttributeValueMemberS); ok {
		paste.Visibility = models.Visibility(v.Value)
	}
	if v, ok := item["created_at"].(*types.AttributeValueMemberS); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v.Value); err == nil {
			paste.CreatedAt = ts
		}
	}
	if v, ok := item["view_count"].(*types.AttributeValueMemberN); ok {
		if count, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			paste.ViewCount = count
		}
	}
	if v, ok := item["url"].(*types.AttributeValueMemberS); ok {
		paste.URL = v.Value
	}
	return paste
}

// isConditionFailed reports whether err is a failed ConditionExpression.
func isConditionFailed(err error) bool {
	var cond *types.ConditionalCheckFailedException
	return errors.As(err, &cond)
}

// mapDynamoError translates SDK errors onto the store's sentinel taxonomy.
func mapDynamoError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ValidationException", "ResourceNotFoundException", "AccessDeniedException":
			return fmt.Errorf("%w: %v", ErrWriteRejected, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
