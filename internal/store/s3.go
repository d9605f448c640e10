package store

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const objectContentType = "text/plain"

type S3Store struct {
	s3 s3iface.S3API
}

func NewS3Store(client s3iface.S3API) *S3Store {
	return &S3Store{s3: client}
}

func (s *S3Store) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	request := &s3.PutObjectInput{}
	request.Bucket = aws.String(bucket)
	request.Key = aws.String(key)
	request.Body = bytes.NewReader(body)
	request.ContentLength = aws.Int64(int64(len(body)))
	request.ContentType = aws.String(objectContentType)

	_, err := s.s3.PutObjectWithContext(ctx, request)
	return wrap(TargetS3, "PutObject", err)
}

func (s *S3Store) DeleteObject(ctx context.Context, bucket, key string) error {
	request := &s3.DeleteObjectInput{}
	request.Bucket = aws.String(bucket)
	request.Key = aws.String(key)

	_, err := s.s3.DeleteObjectWithContext(ctx, request)
	return wrap(TargetS3, "DeleteObject", err)
}
