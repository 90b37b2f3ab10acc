// Package publish uploads corpus artifacts to S3 or any S3-compatible
// object store.
package publish

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jsphweid/chorale/logger"
	"github.com/pkg/errors"
)

// PutObjectAPI is the part of the S3 API the publisher uses. *s3.Client
// satisfies it.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func New(client PutObjectAPI, bucket, prefix string) *Publisher {
	return &Publisher{client: client, bucket: bucket, prefix: prefix}
}

// NewFromEnv builds an S3 client from the default AWS credential chain.
func NewFromEnv(ctx context.Context, bucket, prefix string) (*Publisher, error) {
	if bucket == "" {
		return nil, errors.New("no S3 bucket configured")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Could not load AWS config")
	}
	return New(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (p *Publisher) Key(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return "application/json"
	case ".jsonl":
		return "application/jsonl"
	case ".txt":
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}

// Upload puts one local file under <prefix>/<base name> and returns the key.
func (p *Publisher) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", errors.Wrapf(err, "Could not open %v", localPath)
	}
	defer f.Close()

	key := p.Key(filepath.Base(localPath))
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", errors.Wrapf(err, "Could not upload %v", localPath)
	}
	logger.Info("Uploaded", "bucket", p.bucket, "key", key)
	return key, nil
}

// UploadAll uploads required files and any optional files that exist.
func (p *Publisher) UploadAll(ctx context.Context, required, optional []string) ([]string, error) {
	var keys []string
	for _, f := range required {
		key, err := p.Upload(ctx, f)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	for _, f := range optional {
		if _, err := os.Stat(f); err != nil {
			logger.Debug("Skipping optional artifact", "path", f)
			continue
		}
		key, err := p.Upload(ctx, f)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
