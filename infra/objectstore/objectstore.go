// Package objectstore uploads published files to an S3 compatible bucket.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kilianp07/svitlo/config"
	"github.com/kilianp07/svitlo/infra/logger"
)

// objectAPI is the part of *minio.Client the uploader uses.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Uploader copies local files into the bucket under a fixed prefix.
type Uploader struct {
	api    objectAPI
	bucket string
	prefix string
	log    logger.Logger
}

// New connects a minio client for cfg.
func New(cfg config.StorageConfig) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return newUploader(client, cfg.Bucket, cfg.Prefix), nil
}

func newUploader(api objectAPI, bucket, prefix string) *Uploader {
	return &Uploader{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/"), log: logger.New("objectstore")}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	ok, err := u.api.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", u.bucket, err)
	}
	if ok {
		return nil
	}
	if err := u.api.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", u.bucket, err)
	}
	u.log.Infof("created bucket %s", u.bucket)
	return nil
}

// ObjectName returns the key a file named name is stored under.
func (u *Uploader) ObjectName(name string) string {
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// ContentType guesses the MIME type from the file extension.
func ContentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// UploadFile stores the local file under its base name.
func (u *Uploader) UploadFile(ctx context.Context, local string) error {
	f, err := os.Open(local)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	name := filepath.Base(local)
	obj := u.ObjectName(name)
	if _, err := u.api.PutObject(ctx, u.bucket, obj, f, info.Size(), minio.PutObjectOptions{
		ContentType: ContentType(name),
	}); err != nil {
		return fmt.Errorf("upload %s: %w", obj, err)
	}
	u.log.Debugf("uploaded %s to %s/%s", local, u.bucket, obj)
	return nil
}
