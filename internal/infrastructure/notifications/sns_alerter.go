package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

const payoutFailedEvent = "payout.failed"

// TopicAPI is the part of *sns.Client the alerter calls.
type TopicAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type payoutFailedMessage struct {
	Event string `json:"event"`
	entities.PayoutAlert
}

// SNSAlerter fans failed payouts out to the operator topic. Without a topic it only logs.
//
// Each message carries event and booking_id attributes so subscribers can filter without
// parsing the body.
type SNSAlerter struct {
	topics   TopicAPI
	topicARN string
	logger   *zap.Logger
}

var _ interfaces.IOperatorAlerter = (*SNSAlerter)(nil)

func NewSNSAlerter(topics TopicAPI, topicARN string, logger *zap.Logger) *SNSAlerter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SNSAlerter{topics: topics, topicARN: topicARN, logger: logger.Named("payout_alerts")}
}

// NewSNSAlerterFromConfig builds the alerter on the shared AWS config.
func NewSNSAlerterFromConfig(cfg aws.Config, topicARN string, logger *zap.Logger) *SNSAlerter {
	return NewSNSAlerter(sns.NewFromConfig(cfg), topicARN, logger)
}

func (a *SNSAlerter) PayoutFailed(ctx context.Context, alert entities.PayoutAlert) error {
	log := a.logger.With(
		zap.String("booking_id", alert.BookingID),
		zap.String("provider_id", alert.ProviderID),
		zap.Int64("amount", alert.Amount),
		zap.String("reason", alert.Reason),
	)
	if a.topics == nil || a.topicARN == "" {
		log.Warn("payout alert not published: no topic configured")
		return nil
	}

	body, err := json.Marshal(payoutFailedMessage{Event: payoutFailedEvent, PayoutAlert: alert})
	if err != nil {
		return err
	}
	out, err := a.topics.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(a.topicARN),
		Subject:  aws.String(fmt.Sprintf("Payout failed for booking %s", alert.BookingID)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event":      stringAttribute(payoutFailedEvent),
			"booking_id": stringAttribute(alert.BookingID),
		},
	})
	if err != nil {
		log.Error("payout alert publish failed", zap.Error(err))
		return fmt.Errorf("publish payout alert for booking %s: %w", alert.BookingID, err)
	}
	log.Info("payout alert published", zap.String("topic_arn", a.topicARN), zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

func stringAttribute(v string) types.MessageAttributeValue {
	return types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
}
