package store_test

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/guid-writer/config"
	"github.com/angeloszaimis/guid-writer/internal/store"
)

var _ = Describe("S3Store", func() {
	var (
		ctx    context.Context
		client *fakeS3
		s      *store.S3Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &fakeS3{}
		s = store.NewS3Store(client)
	})

	Describe("PutObject", func() {
		It("should send bucket, key and body", func() {
			Expect(s.PutObject(ctx, "guid-bucket", "abc.txt", []byte("abc"))).To(Succeed())

			Expect(client.puts).To(HaveLen(1))
			in := client.puts[0]
			Expect(aws.StringValue(in.Bucket)).To(Equal("guid-bucket"))
			Expect(aws.StringValue(in.Key)).To(Equal("abc.txt"))
			Expect(aws.Int64Value(in.ContentLength)).To(Equal(int64(3)))
			Expect(aws.StringValue(in.ContentType)).To(Equal("text/plain"))
			Expect(client.bodies[0]).To(Equal([]byte("abc")))
		})

		It("should wrap AWS errors with their code", func() {
			client.err = awserr.New("NoSuchBucket", "The specified bucket does not exist", nil)

			err := s.PutObject(ctx, "missing", "abc.txt", []byte("abc"))
			Expect(err).To(HaveOccurred())

			var storeErr *store.Error
			Expect(errors.As(err, &storeErr)).To(BeTrue())
			Expect(storeErr.Target).To(Equal(store.TargetS3))
			Expect(storeErr.Op).To(Equal("PutObject"))
			Expect(storeErr.Code).To(Equal("NoSuchBucket"))
			Expect(storeErr.Unreachable()).To(BeFalse())
			Expect(errors.Is(err, client.err)).To(BeTrue())
		})

		It("should flag transport failures as unreachable", func() {
			client.err = awserr.New(request.ErrCodeRequestError, "send request failed", errors.New("dial tcp: connection refused"))

			err := s.PutObject(ctx, "guid-bucket", "abc.txt", []byte("abc"))

			var storeErr *store.Error
			Expect(errors.As(err, &storeErr)).To(BeTrue())
			Expect(storeErr.Unreachable()).To(BeTrue())
		})

		It("should keep plain errors without a code", func() {
			client.err = errors.New("boom")

			err := s.PutObject(ctx, "guid-bucket", "abc.txt", []byte("abc"))
			Expect(err).To(MatchError("s3 PutObject: boom"))
		})
	})

	Describe("DeleteObject", func() {
		It("should delete the given key", func() {
			Expect(s.DeleteObject(ctx, "guid-bucket", "abc.txt")).To(Succeed())

			Expect(client.deletes).To(HaveLen(1))
			Expect(aws.StringValue(client.deletes[0].Bucket)).To(Equal("guid-bucket"))
			Expect(aws.StringValue(client.deletes[0].Key)).To(Equal("abc.txt"))
		})
	})
})

var _ = Describe("DynamoStore", func() {
	var (
		ctx    context.Context
		client *fakeDynamo
		s      *store.DynamoStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &fakeDynamo{}
		s = store.NewDynamoStore(client)
	})

	Describe("PutRecord", func() {
		It("should write a single string attribute named id", func() {
			Expect(s.PutRecord(ctx, "guid-table", store.Record{ID: "abc"})).To(Succeed())

			Expect(client.puts).To(HaveLen(1))
			in := client.puts[0]
			Expect(aws.StringValue(in.TableName)).To(Equal("guid-table"))
			Expect(in.Item).To(HaveLen(1))
			Expect(in.Item).To(HaveKeyWithValue("id", &dynamodb.AttributeValue{S: aws.String("abc")}))
		})

		It("should wrap AWS errors with their code", func() {
			client.err = awserr.New(dynamodb.ErrCodeResourceNotFoundException, "table not found", nil)

			err := s.PutRecord(ctx, "missing", store.Record{ID: "abc"})

			var storeErr *store.Error
			Expect(errors.As(err, &storeErr)).To(BeTrue())
			Expect(storeErr.Target).To(Equal(store.TargetDynamoDB))
			Expect(storeErr.Op).To(Equal("PutItem"))
			Expect(storeErr.Code).To(Equal(dynamodb.ErrCodeResourceNotFoundException))
		})
	})
})

var _ = Describe("NewSession", func() {
	It("should apply region, endpoint and path style", func() {
		sess, err := store.NewSession(config.AWSConfig{
			Region:           "ap-southeast-2",
			Endpoint:         "http://localhost:4566",
			S3ForcePathStyle: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(aws.StringValue(sess.Config.Region)).To(Equal("ap-southeast-2"))
		Expect(aws.StringValue(sess.Config.Endpoint)).To(Equal("http://localhost:4566"))
		Expect(aws.BoolValue(sess.Config.S3ForcePathStyle)).To(BeTrue())
		Expect(aws.IntValue(sess.Config.MaxRetries)).To(Equal(0))
	})
})

var _ = Describe("Memory", func() {
	var (
		ctx context.Context
		m   *store.Memory
	)

	BeforeEach(func() {
		ctx = context.Background()
		m = store.NewMemory()
	})

	It("should store and return objects", func() {
		Expect(m.PutObject(ctx, "b", "k.txt", []byte("k"))).To(Succeed())

		body, ok := m.Object("b", "k.txt")
		Expect(ok).To(BeTrue())
		Expect(body).To(Equal([]byte("k")))
		Expect(m.ObjectCount("b")).To(Equal(1))
	})

	It("should copy the body on write", func() {
		body := []byte("k")
		Expect(m.PutObject(ctx, "b", "k.txt", body)).To(Succeed())
		body[0] = 'x'

		stored, _ := m.Object("b", "k.txt")
		Expect(stored).To(Equal([]byte("k")))
	})

	It("should delete objects", func() {
		Expect(m.PutObject(ctx, "b", "k.txt", []byte("k"))).To(Succeed())
		Expect(m.DeleteObject(ctx, "b", "k.txt")).To(Succeed())

		_, ok := m.Object("b", "k.txt")
		Expect(ok).To(BeFalse())
	})

	It("should store records by id", func() {
		Expect(m.PutRecord(ctx, "t", store.Record{ID: "abc"})).To(Succeed())

		rec, ok := m.Record("t", "abc")
		Expect(ok).To(BeTrue())
		Expect(rec.ID).To(Equal("abc"))
		Expect(m.RecordCount("t")).To(Equal(1))
		Expect(m.RecordCount("other")).To(Equal(0))
	})
})
