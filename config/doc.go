// Package config loads the function's configuration from defaults, an optional
// YAML file and environment variables. It covers the run mode, logging, AWS
// client settings and the S3 bucket and DynamoDB table the handler writes to.
package config
