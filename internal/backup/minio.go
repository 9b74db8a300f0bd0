// Package backup archives a snapshot of the serialized joke collection to
// object storage after every successful admin write. The backing repo already
// has full history, so this is belt-and-braces off-site retention; failures
// are logged, never surfaced to the admin caller.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jokeoftheday/jotd/pkg/logger"
)

type Archiver struct {
	client *minio.Client
	bucket string
	prefix string
}

// Config holds MinIO connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// New creates the archiver and ensures the bucket exists.
func New(cfg Config) (*Archiver, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	a := &Archiver{client: mc, bucket: cfg.Bucket, prefix: cfg.Prefix}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, a.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return a, nil
}

// Snapshot uploads the serialized collection under a timestamped key.
// Runs detached from the request path: the caller fires it in a goroutine
// with its own timeout so an aborted admin request cannot cancel the upload.
// Nil-safe so callers don't branch on whether backups are configured.
func (a *Archiver) Snapshot(content []byte, version string) {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	key := fmt.Sprintf("%sjokes-%s-%s.json", a.prefix, time.Now().UTC().Format("20060102T150405"), version)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		logger.Warnf("backup snapshot %s failed: %v", key, err)
		return
	}
	logger.Debugf("backup snapshot uploaded: %s", key)
}
