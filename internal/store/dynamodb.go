package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

type DynamoStore struct {
	db dynamodbiface.DynamoDBAPI
}

func NewDynamoStore(client dynamodbiface.DynamoDBAPI) *DynamoStore {
	return &DynamoStore{db: client}
}

// PutRecord writes rec unconditionally; an existing item with the same id is
// replaced.
func (s *DynamoStore) PutRecord(ctx context.Context, table string, rec Record) error {
	item, err := dynamodbattribute.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.db.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	return wrap(TargetDynamoDB, "PutItem", err)
}
