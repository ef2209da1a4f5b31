package export

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Config_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     S3Config
		wantErr string
	}{
		{
			name: "Region only",
			cfg:  S3Config{Region: "eu-west-1", Bucket: "exports"},
		},
		{
			name: "Endpoint only",
			cfg:  S3Config{Endpoint: "http://localhost:9000", Bucket: "exports"},
		},
		{
			name:    "Missing bucket",
			cfg:     S3Config{Region: "eu-west-1"},
			wantErr: "bucket: cannot be blank",
		},
		{
			name:    "Missing region and endpoint",
			cfg:     S3Config{Bucket: "exports"},
			wantErr: "is required when endpoint is not set",
		},
		{
			name:    "Access key without secret",
			cfg:     S3Config{Region: "eu-west-1", Bucket: "exports", AccessKey: "minio"},
			wantErr: "is required with access_key",
		},
		{
			name:    "Negative timeout",
			cfg:     S3Config{Region: "eu-west-1", Bucket: "exports", RequestTimeoutSeconds: -1},
			wantErr: "request_timeout_seconds: must be no less than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestS3Config_SetDefaults(t *testing.T) {
	cfg := S3Config{Endpoint: "http://localhost:9000", Bucket: "exports"}
	cfg.SetDefaults()

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, 30, cfg.RequestTimeoutSeconds)
}

func TestNewS3Sink_InvalidConfig(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3Config{}, hclog.NewNullLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid S3 configuration")
}

// writeCABundle writes a self-signed certificate as a PEM file.
func writeCABundle(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "docflow test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o644))
	return path
}

func TestNewS3Sink_CABundle(t *testing.T) {
	t.Setenv("AWS_CA_BUNDLE", writeCABundle(t))

	sink, err := NewS3Sink(context.Background(), S3Config{
		Endpoint:           "http://localhost:9000",
		Bucket:             "exports",
		AccessKey:          "minio",
		SecretKey:          "minio123",
		InsecureSkipVerify: true,
	}, hclog.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, "s3", sink.Name())
	assert.Equal(t, 30, sink.cfg.RequestTimeoutSeconds)
}

func TestS3Sink_Write(t *testing.T) {
	putter := &fakePutter{}
	sink := newS3Sink(putter, S3Config{Bucket: "exports", Prefix: "ragflow/"}, nil)
	sink.newID = func() string { return "0b7e5c1a" }

	body := []byte(`{"doc_id": "a.pdf", "chunks": []}`)
	location, err := sink.Write(context.Background(), Artifact{
		DocID:       "12",
		Filename:    "a_ragflow_payload.json",
		ContentType: "application/json",
		Body:        body,
	})
	require.NoError(t, err)

	assert.Equal(t, "s3://exports/ragflow/12/0b7e5c1a-a_ragflow_payload.json", location)
	require.NotNil(t, putter.input)
	assert.Equal(t, "exports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "ragflow/12/0b7e5c1a-a_ragflow_payload.json", aws.ToString(putter.input.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(len(body)), aws.ToInt64(putter.input.ContentLength))
	assert.Equal(t, "12", putter.input.Metadata["doc-id"])
	assert.Equal(t, body, putter.body)
}

func TestS3Sink_KeysAreUnique(t *testing.T) {
	sink := newS3Sink(&fakePutter{}, S3Config{Bucket: "exports"}, nil)
	a := Artifact{DocID: "1", Filename: "x.json"}

	assert.NotEqual(t, sink.Key(a), sink.Key(a))
}

func TestS3Sink_WriteError(t *testing.T) {
	errDenied := errors.New("access denied")
	sink := newS3Sink(&fakePutter{err: errDenied}, S3Config{Bucket: "exports"}, nil)

	_, err := sink.Write(context.Background(), Artifact{DocID: "1", Filename: "x.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDenied)
	assert.Contains(t, err.Error(), "failed to put object")
}
