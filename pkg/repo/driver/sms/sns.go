package sms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"kidsclub/config"
	"kidsclub/pkg/consts"
	"kidsclub/utilities"
)

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSSender struct {
	client snsPublisher
	sender string
}

func NewSNSSender(ctx context.Context, cfg config.SMS) (*SNSSender, error) {
	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(cfg.Region)}
	if cfg.KeyID != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.Secret, ""),
		))
	}

	amazonConfiguration, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SNSSender{
		client: sns.NewFromConfig(amazonConfiguration),
		sender: cfg.Sender,
	}, nil
}

func (s *SNSSender) SendSMS(ctx context.Context, phone, msg string) error {
	log := utilities.NewLogger("SNSSender.SendSMS")

	attributes := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if s.sender != "" {
		attributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.sender),
		}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String("+" + phone),
		Message:           aws.String(msg),
		MessageAttributes: attributes,
	})
	if err != nil {
		return fmt.Errorf("sns publish failed: %w", err)
	}

	log.Debugf("sms %s sent to %s", aws.ToString(out.MessageId), utilities.MaskPhone(phone))

	return nil
}

func (s *SNSSender) Simulated() bool {
	return false
}

func (s *SNSSender) Name() string {
	return consts.SNS
}
