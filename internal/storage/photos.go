package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"wastex-backend/internal/config"
)

// SignedURLExpiry is deliberately short; broken links are refreshed through
// the photo handler rather than handing out long-lived URLs.
const SignedURLExpiry = 2 * time.Minute

// PhotoStore wraps the S3-compatible bucket (Cloudflare R2) that holds
// production-log photo evidence.
type PhotoStore struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	publicBase string
	private    bool
}

func NewPhotoStore(cfg *config.Config) (*PhotoStore, error) {
	if cfg.Storage.Endpoint == "" || cfg.Storage.AccessKey == "" {
		return nil, fmt.Errorf("blob storage not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
	})

	return &PhotoStore{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Storage.Bucket,
		publicBase: strings.TrimSuffix(cfg.Storage.PublicBase, "/"),
		private:    cfg.Storage.PrivateMode,
	}, nil
}

// Upload writes raw photo bytes under the given key and returns the
// reference callers should store (public URL, or the key for private buckets).
func (p *PhotoStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("photo upload failed: %w", err)
	}
	log.Printf("[Storage] Uploaded photo %s (%d bytes)", key, len(data))

	if p.private {
		return key, nil
	}
	return p.PublicURL(key), nil
}

// PublicURL resolves a stored key to its public URL.
func (p *PhotoStore) PublicURL(key string) string {
	if p.publicBase == "" {
		return key
	}
	return p.publicBase + "/" + key
}

// SignedURL issues a short-lived GET URL for a stored key. Used by the
// photo-refresh path when a previously issued link has expired.
func (p *PhotoStore) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(SignedURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to sign photo url: %w", err)
	}
	return req.URL, nil
}

// ObjectKey derives the destination name for a photo: hash prefix plus a
// timestamp plus the original extension. The hash prefix makes collisions
// visible; the timestamp keeps names unique across re-uploads of edits.
func ObjectKey(hash, filename string, now time.Time) string {
	prefix := hash
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i:]
	}
	return fmt.Sprintf("photos/%s_%d%s", prefix, now.UnixMilli(), ext)
}
