package store

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/angeloszaimis/guid-writer/config"
)

// NewSession builds the AWS session shared by the S3 and DynamoDB clients.
// An empty region falls back to the SDK's own resolution (AWS_REGION on
// Lambda). Retries are disabled.
func NewSession(cfg config.AWSConfig) (*session.Session, error) {
	awsCfg := aws.NewConfig().WithMaxRetries(0)

	if cfg.Region != "" {
		awsCfg = awsCfg.WithRegion(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	if cfg.S3ForcePathStyle {
		awsCfg = awsCfg.WithS3ForcePathStyle(true)
	}

	return session.NewSession(awsCfg)
}
