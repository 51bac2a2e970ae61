package repository

import (
	"context"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultProviderProfilesTableName = "provider_profiles"

type providerProfileItem struct {
	UserID           string `dynamodbav:"user_id"`
	MpesaPhoneNumber string `dynamodbav:"mpesa_phone_number"`
	UpdatedAt        string `dynamodbav:"updated_at"`
}

// ProviderProfileDynamoRepository stores provider payout accounts.
//
// Table requirements:
//   - PK: user_id (string)

type ProviderProfileDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IProviderProfileRepository = (*ProviderProfileDynamoRepository)(nil)

func NewProviderProfileDynamoRepository(ddb DynamoAPI, tableName string) *ProviderProfileDynamoRepository {
	return &ProviderProfileDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultProviderProfilesTableName),
	}
}

func (r *ProviderProfileDynamoRepository) GetByUserID(ctx context.Context, userID string) (entities.ProviderProfile, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.ProviderProfile{}, err
	}
	if len(out.Item) == 0 {
		return entities.ProviderProfile{}, nil
	}

	var it providerProfileItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.ProviderProfile{}, err
	}
	return entities.ProviderProfile{
		UserID:           it.UserID,
		MpesaPhoneNumber: it.MpesaPhoneNumber,
		UpdatedAt:        parseTime(it.UpdatedAt),
	}, nil
}

func (r *ProviderProfileDynamoRepository) Upsert(ctx context.Context, p entities.ProviderProfile) (entities.ProviderProfile, error) {
	av, err := attributevalue.MarshalMap(providerProfileItem{
		UserID:           p.UserID,
		MpesaPhoneNumber: p.MpesaPhoneNumber,
		UpdatedAt:        formatTime(p.UpdatedAt),
	})
	if err != nil {
		return entities.ProviderProfile{}, err
	}
	if _, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return entities.ProviderProfile{}, err
	}
	return p, nil
}
