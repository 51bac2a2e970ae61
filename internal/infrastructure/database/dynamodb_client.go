package database

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// NewAWSConfigFromEnv loads the AWS config shared by the DynamoDB and SNS clients.
//
// Supported env vars:
//   - AWS_REGION (default: us-east-1)
//   - DYNAMODB_ENDPOINT, SNS_ENDPOINT (optional; DynamoDB Local / LocalStack)
//   - AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN
//
// Without a local endpoint the SDK default credential chain is used (env, shared config, task role).
func NewAWSConfigFromEnv(ctx context.Context) (aws.Config, error) {
	endpoints := map[string]string{}
	if v := os.Getenv("DYNAMODB_ENDPOINT"); v != "" {
		endpoints[dynamodb.ServiceID] = v
	}
	if v := os.Getenv("SNS_ENDPOINT"); v != "" {
		endpoints[sns.ServiceID] = v
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(getenvDefault("AWS_REGION", "us-east-1")),
	}

	if len(endpoints) > 0 {
		// Local emulators ignore credentials, but the SDK refuses to sign without them.
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			getenvDefault("AWS_ACCESS_KEY_ID", "local"),
			getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
			os.Getenv("AWS_SESSION_TOKEN"),
		)))

		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if url, ok := endpoints[service]; ok {
				return aws.Endpoint{URL: url, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// NewDynamoDBClient returns the client backing the booking, transaction and provider profile tables.
func NewDynamoDBClient(cfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
