package exobuild

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ReleaseClient wraps an S3-compatible client for publishing build
// outputs (any endpoint that speaks the S3 API works, including R2).
type ReleaseClient struct {
	Client     *s3.Client
	BucketName string
}

// NewReleaseClient initializes the client from configuration values.
func NewReleaseClient(cfg *Config) (*ReleaseClient, error) {
	endpoint := cfg.Values["EXOBUILD_S3_ENDPOINT"]
	accessKey := cfg.Values["EXOBUILD_S3_ACCESS_KEY_ID"]
	secretKey := cfg.Values["EXOBUILD_S3_SECRET_ACCESS_KEY"]
	bucketName := cfg.Values["EXOBUILD_S3_BUCKET"]

	if endpoint == "" || accessKey == "" || secretKey == "" || bucketName == "" {
		return nil, fmt.Errorf("release upload credentials missing in configuration " +
			"(EXOBUILD_S3_ENDPOINT, EXOBUILD_S3_ACCESS_KEY_ID, EXOBUILD_S3_SECRET_ACCESS_KEY, EXOBUILD_S3_BUCKET)")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: endpoint}, nil
	})

	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithRegion("auto"),
	}

	if Debug {
		options = append(options, awsconfig.WithClientLogMode(aws.LogRetries|aws.LogRequest|aws.LogResponse))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &ReleaseClient{Client: client, BucketName: bucketName}, nil
}

// UploadLocalFile uploads a file from disk under the given key.
func (r *ReleaseClient) UploadLocalFile(ctx context.Context, key, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(key, ".zst"):
		contentType = "application/zstd"
	case strings.HasSuffix(key, ".iso"):
		contentType = "application/x-iso9660-image"
	}

	_, err = r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.BucketName),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String(contentType),
	})
	return err
}

// ListKeys returns the keys currently under a prefix.
func (r *ReleaseClient) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(r.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.BucketName),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}
