package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/karwash91/my-chatbot/internal/model"
	"github.com/karwash91/my-chatbot/internal/pkg/awsutil"
	appErr "github.com/karwash91/my-chatbot/internal/pkg/errors"
)

type dynamoConfig struct {
	awsutil.ClientConfig
	Table string `json:"table"`
}

type dynamoStore struct {
	client *dynamodb.Client
	table  string
}

func init() {
	Register("dynamodb", createDynamoStore)
}

func createDynamoStore(args interface{}) (Store, error) {
	config := &dynamoConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.Table == "" {
		return nil, fmt.Errorf("dynamodb table is required")
	}
	awsCfg, err := awsutil.Load(context.Background(), config.ClientConfig)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})
	return &dynamoStore{client: client, table: config.Table}, nil
}

func (s *dynamoStore) Put(ctx context.Context, rec *model.ChunkRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal chunk record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("%w: put item %s/%s: %v", appErr.ErrUpstream, rec.DocID, rec.ChunkID, err)
	}
	return nil
}

func (s *dynamoStore) ScanAll(ctx context.Context) ([]model.ChunkRecord, error) {
	var records []model.ChunkRecord
	var startKey map[string]dynamodbtypes.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scan table %s: %v", appErr.ErrUpstream, s.table, err)
		}
		var page []model.ChunkRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal chunk records: %w", err)
		}
		records = append(records, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return records, nil
}
