package repository

import (
	"context"
	"strconv"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultBookingsTableName = "bookings"
	bookingsClientIDIndex    = "client_id-index"
)

type bookingItem struct {
	ID              string `dynamodbav:"id"`
	ClientID        string `dynamodbav:"client_id"`
	ClientPhone     string `dynamodbav:"client_phone,omitempty"`
	ProviderID      string `dynamodbav:"provider_id,omitempty"`
	ServiceCategory string `dynamodbav:"service_category"`
	PaymentMethod   string `dynamodbav:"payment_method"`
	Price           int64  `dynamodbav:"price"`

	TotalPrice     int64 `dynamodbav:"total_price"`
	PlatformFee    int64 `dynamodbav:"platform_fee"`
	ProviderPayout int64 `dynamodbav:"provider_payout"`

	Status            string `dynamodbav:"status"`
	PaymentStatus     string `dynamodbav:"payment_status"`
	Paid              bool   `dynamodbav:"paid"`
	PaidAt            string `dynamodbav:"paid_at,omitempty"`
	TransactionID     string `dynamodbav:"transaction_id,omitempty"`
	PayoutStatus      string `dynamodbav:"payout_status"`
	PayoutProcessedAt string `dynamodbav:"payout_processed_at,omitempty"`
	RefundedAt        string `dynamodbav:"refunded_at,omitempty"`
	CompletedAt       string `dynamodbav:"completed_at,omitempty"`
	PaymentDeadline   string `dynamodbav:"payment_deadline,omitempty"`
	PaymentLate       bool   `dynamodbav:"payment_late,omitempty"`

	Version   int64  `dynamodbav:"version"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// BookingDynamoRepository persists Booking entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: client_id-index (PK: client_id)
//
// Every write after creation is a full PutItem guarded by the version the caller read, so two
// writers that start from the same state cannot both succeed.

type BookingDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IBookingRepository = (*BookingDynamoRepository)(nil)

func NewBookingDynamoRepository(ddb DynamoAPI, tableName string) *BookingDynamoRepository {
	return &BookingDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultBookingsTableName),
	}
}

func (r *BookingDynamoRepository) Create(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	b.Version = 1
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return entities.Booking{}, err
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
		return entities.Booking{}, err
	}
	return b, nil
}

func (r *BookingDynamoRepository) GetByID(ctx context.Context, id string) (entities.Booking, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Booking{}, err
	}
	if len(out.Item) == 0 {
		return entities.Booking{}, nil
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Booking{}, err
	}
	return fromBookingItem(it), nil
}

func (r *BookingDynamoRepository) Update(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	expected := b.Version
	b.Version = expected + 1
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return entities.Booking{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Booking{}, interfaces.ErrConcurrentUpdate
		}
		return entities.Booking{}, err
	}
	return b, nil
}

func (r *BookingDynamoRepository) ListByClientID(ctx context.Context, clientID string) ([]entities.Booking, error) {
	var (
		items []entities.Booking
		start map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(bookingsClientIDIndex),
			KeyConditionExpression: aws.String("client_id = :cid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":cid": &types.AttributeValueMemberS{Value: clientID},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it bookingItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromBookingItem(it))
		}
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		start = out.LastEvaluatedKey
	}
}

func toBookingItem(b entities.Booking) bookingItem {
	return bookingItem{
		ID:                b.ID,
		ClientID:          b.ClientID,
		ClientPhone:       b.ClientPhone,
		ProviderID:        b.ProviderID,
		ServiceCategory:   string(b.ServiceCategory),
		PaymentMethod:     string(b.PaymentMethod),
		Price:             b.Price,
		TotalPrice:        b.TotalPrice,
		PlatformFee:       b.PlatformFee,
		ProviderPayout:    b.ProviderPayout,
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		Paid:              b.Paid(),
		PaidAt:            formatTime(b.PaidAt),
		TransactionID:     b.TransactionID,
		PayoutStatus:      string(b.PayoutStatus),
		PayoutProcessedAt: formatTime(b.PayoutProcessedAt),
		RefundedAt:        formatTime(b.RefundedAt),
		CompletedAt:       formatTime(b.CompletedAt),
		PaymentDeadline:   formatTime(b.PaymentDeadline),
		PaymentLate:       b.PaymentLate,
		Version:           b.Version,
		CreatedAt:         formatTime(b.CreatedAt),
		UpdatedAt:         formatTime(b.UpdatedAt),
	}
}

func fromBookingItem(it bookingItem) entities.Booking {
	return entities.Booking{
		ID:                it.ID,
		ClientID:          it.ClientID,
		ClientPhone:       it.ClientPhone,
		ProviderID:        it.ProviderID,
		ServiceCategory:   entities.ServiceCategory(it.ServiceCategory),
		PaymentMethod:     entities.PaymentMethod(it.PaymentMethod),
		Price:             it.Price,
		TotalPrice:        it.TotalPrice,
		PlatformFee:       it.PlatformFee,
		ProviderPayout:    it.ProviderPayout,
		Status:            entities.BookingStatus(it.Status),
		PaymentStatus:     entities.PaymentStatus(it.PaymentStatus),
		PaidAt:            parseTime(it.PaidAt),
		TransactionID:     it.TransactionID,
		PayoutStatus:      entities.PayoutStatus(it.PayoutStatus),
		PayoutProcessedAt: parseTime(it.PayoutProcessedAt),
		RefundedAt:        parseTime(it.RefundedAt),
		CompletedAt:       parseTime(it.CompletedAt),
		PaymentDeadline:   parseTime(it.PaymentDeadline),
		PaymentLate:       it.PaymentLate,
		Version:           it.Version,
		CreatedAt:         parseTime(it.CreatedAt),
		UpdatedAt:         parseTime(it.UpdatedAt),
	}
}
