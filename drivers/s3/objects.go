package s3

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// ObjectStore is the subset of object storage operations used by the driver
type ObjectStore interface {
	List(ctx context.Context, bucket, prefix string) ([]string, error)
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Put(ctx context.Context, bucket, key string, data []byte) error
}

// Config encapsulates the connection settings of an S3 endpoint
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Secure    bool
}

type minioStore struct {
	client *minio.Client
}

func newMinioStore(cfg Config) (*minioStore, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("no S3 endpoint configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not create S3 client for %s", cfg.Endpoint)
	}

	return &minioStore{client: client}, nil
}

func (m *minioStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var keys []string
	for obj := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, errors.Wrapf(obj.Err, "could not list %s/%s", bucket, prefix)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (m *minioStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "could not get %s/%s", bucket, key)
	}

	// GetObject is lazy, a missing object only shows up on first access
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, errors.Wrapf(err, "could not get %s/%s", bucket, key)
	}
	return obj, nil
}

func (m *minioStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	_, err := m.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return errors.Wrapf(err, "could not put %s/%s", bucket, key)
}
