// Package storage fetches uploaded resumes from Cloudflare R2 through its S3
// compatible API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/muhammadolammi/skillsync/internal/config"
	"github.com/pkg/errors"
)

// ObjectGetter is the slice of the S3 client the downloader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type R2 struct {
	client ObjectGetter
	bucket string
}

func Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// NewR2 builds an S3 client pointed at the account's R2 endpoint.
func NewR2(ctx context.Context, cfg config.R2Config) (*R2, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "error creating aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(Endpoint(cfg.AccountID))
	})
	return NewR2WithClient(client, cfg.Bucket), nil
}

func NewR2WithClient(client ObjectGetter, bucket string) *R2 {
	return &R2{client: client, bucket: bucket}
}

func (r *R2) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get object %s", key)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, errors.Wrapf(err, "failed to read object body %s", key)
	}
	return buf.Bytes(), nil
}
