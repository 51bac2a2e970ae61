package repository

import (
	"context"
	"fmt"
	"sort"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultTransactionsTableName = "transactions"
	transactionsBookingIDIndex   = "booking_id-index"
)

type transactionItem struct {
	ID                    string         `dynamodbav:"id"`
	BookingID             string         `dynamodbav:"booking_id"`
	ClientID              string         `dynamodbav:"client_id"`
	ProviderID            string         `dynamodbav:"provider_id,omitempty"`
	Type                  string         `dynamodbav:"type"`
	Amount                int64          `dynamodbav:"amount"`
	Currency              string         `dynamodbav:"currency"`
	Status                string         `dynamodbav:"status"`
	PaymentMethod         string         `dynamodbav:"payment_method"`
	ExternalTransactionID string         `dynamodbav:"transaction_id,omitempty"`
	Reference             string         `dynamodbav:"reference"`
	Description           string         `dynamodbav:"description"`
	Metadata              map[string]any `dynamodbav:"metadata"`
	ProcessedAt           string         `dynamodbav:"processed_at,omitempty"`
	CreatedAt             string         `dynamodbav:"created_at"`
}

// TransactionDynamoRepository persists the append-only transaction journal in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: booking_id-index (PK: booking_id, SK: created_at)

type TransactionDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.ITransactionRepository = (*TransactionDynamoRepository)(nil)

func NewTransactionDynamoRepository(ddb DynamoAPI, tableName string) *TransactionDynamoRepository {
	return &TransactionDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultTransactionsTableName),
	}
}

func (r *TransactionDynamoRepository) Create(ctx context.Context, tx entities.Transaction) (entities.Transaction, error) {
	if tx.Metadata == nil {
		tx.Metadata = map[string]any{}
	}
	av, err := attributevalue.MarshalMap(toTransactionItem(tx))
	if err != nil {
		return entities.Transaction{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Transaction{}, interfaces.ErrDuplicateTransaction
		}
		return entities.Transaction{}, err
	}
	return tx, nil
}

func (r *TransactionDynamoRepository) UpdateOutcome(ctx context.Context, id string, outcome entities.TransactionOutcome) (entities.Transaction, error) {
	expr := "SET #status = :status, #processed_at = :processed_at"
	names := map[string]string{
		"#status":       "status",
		"#processed_at": "processed_at",
	}
	values := map[string]types.AttributeValue{
		":status":       &types.AttributeValueMemberS{Value: string(outcome.Status)},
		":processed_at": &types.AttributeValueMemberS{Value: formatTime(outcome.ProcessedAt)},
		":pending":      &types.AttributeValueMemberS{Value: string(entities.TransactionStatusPending)},
	}
	if outcome.ExternalTransactionID != "" {
		expr += ", #transaction_id = :transaction_id"
		names["#transaction_id"] = "transaction_id"
		values[":transaction_id"] = &types.AttributeValueMemberS{Value: outcome.ExternalTransactionID}
	}

	keys := make([]string, 0, len(outcome.Metadata))
	for k := range outcome.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		// DynamoDB rejects names the expression never uses.
		names["#metadata"] = "metadata"
	}
	for i, k := range keys {
		av, err := attributevalue.Marshal(outcome.Metadata[k])
		if err != nil {
			return entities.Transaction{}, err
		}
		name, value := fmt.Sprintf("#m%d", i), fmt.Sprintf(":m%d", i)
		expr += fmt.Sprintf(", #metadata.%s = %s", name, value)
		names[name] = k
		values[value] = av
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id) AND #status = :pending"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Transaction{}, nil
		}
		return entities.Transaction{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Transaction{}, nil
	}
	var it transactionItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Transaction{}, err
	}
	return fromTransactionItem(it), nil
}

func (r *TransactionDynamoRepository) ListByBookingID(ctx context.Context, bookingID string) ([]entities.Transaction, error) {
	var (
		items []entities.Transaction
		start map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(transactionsBookingIDIndex),
			KeyConditionExpression: aws.String("booking_id = :bid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":bid": &types.AttributeValueMemberS{Value: bookingID},
			},
			ScanIndexForward:  aws.Bool(true),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it transactionItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromTransactionItem(it))
		}
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		start = out.LastEvaluatedKey
	}
}

func toTransactionItem(tx entities.Transaction) transactionItem {
	return transactionItem{
		ID:                    tx.ID,
		BookingID:             tx.BookingID,
		ClientID:              tx.ClientID,
		ProviderID:            tx.ProviderID,
		Type:                  string(tx.Type),
		Amount:                tx.Amount,
		Currency:              tx.Currency,
		Status:                string(tx.Status),
		PaymentMethod:         string(tx.PaymentMethod),
		ExternalTransactionID: tx.ExternalTransactionID,
		Reference:             tx.Reference,
		Description:           tx.Description,
		Metadata:              tx.Metadata,
		ProcessedAt:           formatTime(tx.ProcessedAt),
		CreatedAt:             formatTime(tx.CreatedAt),
	}
}

func fromTransactionItem(it transactionItem) entities.Transaction {
	return entities.Transaction{
		ID:                    it.ID,
		BookingID:             it.BookingID,
		ClientID:              it.ClientID,
		ProviderID:            it.ProviderID,
		Type:                  entities.TransactionType(it.Type),
		Amount:                it.Amount,
		Currency:              it.Currency,
		Status:                entities.TransactionStatus(it.Status),
		PaymentMethod:         entities.PaymentMethod(it.PaymentMethod),
		ExternalTransactionID: it.ExternalTransactionID,
		Reference:             it.Reference,
		Description:           it.Description,
		Metadata:              it.Metadata,
		ProcessedAt:           parseTime(it.ProcessedAt),
		CreatedAt:             parseTime(it.CreatedAt),
	}
}
