package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var ErrMissingCredentials = errors.New("missing remote storage configuration")

// RemoteConfig holds the object storage settings. All five are required.
type RemoteConfig struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	ObjectKey       string `yaml:"object_key"`
	CacheDir        string `yaml:"cache_dir"`
}

func (c RemoteConfig) Validate() error {
	var missing []string
	for _, field := range []struct {
		name, value string
	}{
		{"access_key_id", c.AccessKeyID},
		{"secret_access_key", c.SecretAccessKey},
		{"region", c.Region},
		{"bucket", c.Bucket},
		{"object_key", c.ObjectKey},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// GetObjectAPI is the subset of the S3 client used for downloads.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source downloads the artifact once and reuses the cached copy afterwards.
type S3Source struct {
	Client   GetObjectAPI
	Bucket   string
	Key      string
	CacheDir string
}

func NewS3Client(ctx context.Context, cfg RemoteConfig) (*s3.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

func NewS3Source(ctx context.Context, cfg RemoteConfig) (*S3Source, error) {
	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &S3Source{
		Client:   client,
		Bucket:   cfg.Bucket,
		Key:      cfg.ObjectKey,
		CacheDir: cfg.CacheDir,
	}, nil
}

// CachePath is where the object is stored locally, keyed by object name.
func (s *S3Source) CachePath() string {
	dir := s.CacheDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, filepath.Base(s.Key))
}

func (s *S3Source) Fetch(ctx context.Context) (string, error) {
	path := s.CachePath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat cache %s: %w", path, err)
	}

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return "", fmt.Errorf("s3://%s/%s not found: %w", s.Bucket, s.Key, os.ErrNotExist)
		}
		return "", fmt.Errorf("download s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.part")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, out.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("download s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return path, nil
}

func (s *S3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}
