package export

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// S3Config configures an S3 compatible export bucket.
type S3Config struct {
	Endpoint  string `hcl:"endpoint,optional" json:"endpoint"` // Custom endpoint, e.g. MinIO
	Region    string `hcl:"region,optional" json:"region"`
	Bucket    string `hcl:"bucket" json:"bucket"`
	Prefix    string `hcl:"prefix,optional" json:"prefix"` // Key prefix, e.g. "exports/"
	AccessKey string `hcl:"access_key,optional" json:"access_key"`
	SecretKey string `hcl:"secret_key,optional" json:"secret_key"`

	InsecureSkipVerify    bool `hcl:"insecure_skip_verify,optional" json:"insecure_skip_verify"`
	RequestTimeoutSeconds int  `hcl:"request_timeout_seconds,optional" json:"request_timeout_seconds"`
}

// Validate checks that the bucket is addressable.
func (c *S3Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Bucket, validation.Required),
		validation.Field(&c.Region,
			validation.When(c.Endpoint == "", validation.Required.Error("is required when endpoint is not set"))),
		validation.Field(&c.SecretKey,
			validation.When(c.AccessKey != "", validation.Required.Error("is required with access_key"))),
		validation.Field(&c.RequestTimeoutSeconds, validation.Min(0)),
	)
}

// SetDefaults fills in optional fields.
func (c *S3Config) SetDefaults() {
	if c.Region == "" {
		// S3 compatible servers ignore the region but the SDK requires one.
		c.Region = "us-east-1"
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = 30
	}
}

// ObjectPutter is the part of the S3 client used by S3Sink.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads artifacts to a bucket.
type S3Sink struct {
	client ObjectPutter
	cfg    S3Config
	logger hclog.Logger
	newID  func() string
}

// NewS3Sink validates cfg and builds an S3 client for it.
func NewS3Sink(ctx context.Context, cfg S3Config, logger hclog.Logger) (*S3Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid S3 configuration: %w", err)
	}
	cfg.SetDefaults()

	awsCfg, err := createAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO and friends need path style addressing.
			o.UsePathStyle = true
		}
	})

	return newS3Sink(client, cfg, logger), nil
}

func newS3Sink(client ObjectPutter, cfg S3Config, logger hclog.Logger) *S3Sink {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &S3Sink{
		client: client,
		cfg:    cfg,
		logger: logger.Named("s3-sink"),
		newID:  func() string { return uuid.New().String() },
	}
}

func createAWSConfig(ctx context.Context, cfg S3Config) (aws.Config, error) {
	// The SDK adds AWS_CA_BUNDLE roots through WithTransportOptions, which a
	// plain *http.Client does not have.
	httpClient := awshttp.NewBuildableClient().
		WithTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second).
		WithTransportOptions(func(tr *http.Transport) {
			tr.Proxy = http.ProxyFromEnvironment
			if tr.TLSClientConfig == nil {
				tr.TLSClientConfig = &tls.Config{}
			}
			tr.TLSClientConfig.InsecureSkipVerify = cfg.InsecureSkipVerify
		})

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithHTTPClient(httpClient),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	return config.LoadDefaultConfig(ctx, opts...)
}

func (s *S3Sink) Name() string {
	return "s3"
}

// Key returns the object key for an artifact. Each export gets a fresh key
// so earlier exports of the same document are kept.
func (s *S3Sink) Key(a Artifact) string {
	return fmt.Sprintf("%s%s/%s-%s", s.cfg.Prefix, sanitizeFilename(a.DocID), s.newID(), a.Filename)
}

func (s *S3Sink) Write(ctx context.Context, a Artifact) (string, error) {
	key := s.Key(a)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(a.Body),
		ContentType:   aws.String(a.ContentType),
		ContentLength: aws.Int64(int64(len(a.Body))),
		Metadata: map[string]string{
			"doc-id": a.DocID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, key)
	s.logger.Debug("uploaded artifact", "doc_id", a.DocID, "location", location, "bytes", len(a.Body))
	return location, nil
}
