package publish

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/marshallshelly/toolshop-fixtures/pkg/config"
	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
)

// Uploader puts run files into an S3-compatible bucket.
type Uploader struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// Uploaded is one object written by Upload.
type Uploaded struct {
	Key  string
	Size int64
}

// NewUploader connects to the bucket described by cfg, creating the bucket when missing.
func NewUploader(ctx context.Context, cfg config.Storage, logger *slog.Logger) (*Uploader, error) {
	if cfg.Endpoint == "" {
		return nil, &fixture.CapabilityError{
			Capability: "object storage",
			Err:        fmt.Errorf("no endpoint configured (set TOOLSHOP_S3_ENDPOINT)"),
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("S3 bucket created", "bucket", cfg.Bucket)
	}

	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

// Upload puts every manifest file, then the manifest itself, under {prefix}/{run id}/.
// The manifest goes last so its presence marks a complete upload.
func (u *Uploader) Upload(ctx context.Context, dir string, m *Manifest) ([]Uploaded, error) {
	if err := m.Check(dir); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(m.Files)+1)
	for _, f := range m.Files {
		names = append(names, f.Name)
	}
	names = append(names, ManifestName)

	out := make([]Uploaded, 0, len(names))
	for _, name := range names {
		key := ObjectKey(u.prefix, m.RunID, name)
		size, err := u.put(ctx, filepath.Join(dir, name), key)
		if err != nil {
			return out, err
		}
		u.logger.Debug("File uploaded to S3", "key", key, "size", size)
		out = append(out, Uploaded{Key: key, Size: size})
	}
	return out, nil
}

func (u *Uploader) put(ctx context.Context, src, key string) (int64, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", src, err)
	}

	_, err = u.client.PutObject(ctx, u.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: ContentType(src),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return info.Size(), nil
}

// ObjectKey joins prefix, run id and file name into a bucket key.
func ObjectKey(prefix, runID, name string) string {
	prefix = strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/")
	return path.Join(prefix, runID, name)
}

// ContentType guesses the object content type from the file extension.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".json":
		return "application/json"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
