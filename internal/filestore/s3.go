package filestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Objects larger than this are not worth embedding; the fetch is truncated.
const maxObjectBytes = 8 << 20

type s3Config struct {
	Region       string `json:"region"`
	Bucket       string `json:"bucket"`
	Endpoint     string `json:"endpoint"`
	AccessKeyID  string `json:"access_key_id"`
	SecretKey    string `json:"secret_key"`
	UsePathStyle bool   `json:"use_path_style"`
}

type s3Store struct {
	client *s3.Client
	bucket string
}

func init() {
	Register("s3", createS3Store)
}

func createS3Store(args interface{}) (Store, error) {
	cfg := &s3Config{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("s3 bucket/region are required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &s3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *s3Store) Type() string {
	return "s3"
}

func (s *s3Store) List(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			// A trailing slash marks a directory placeholder, not a document.
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *s3Store) FetchText(ctx context.Context, locator string) (string, error) {
	key := s.keyFromLocator(locator)
	if key == "" {
		return "", fmt.Errorf("empty object key in locator %q", locator)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", err
	}
	defer out.Body.Close()
	data, err := io.ReadAll(io.LimitReader(out.Body, maxObjectBytes))
	if err != nil {
		return "", err
	}
	return ExtractText(path.Base(key), data), nil
}

// keyFromLocator accepts both bare object keys and s3://bucket/key URLs.
func (s *s3Store) keyFromLocator(locator string) string {
	trimmed := strings.TrimSpace(locator)
	if rest, ok := strings.CutPrefix(trimmed, "s3://"); ok {
		if _, key, found := strings.Cut(rest, "/"); found {
			return key
		}
		return ""
	}
	return strings.TrimPrefix(trimmed, "/")
}
