package deploy

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/andreasphil/routeutil/internal/errors"
)

// deleteBatchSize is the S3 limit for a single DeleteObjects call.
const deleteBatchSize = 1000

// S3API is the slice of the S3 client the syncer uses. The list side
// matches the SDK paginator's client interface.
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Options configures a sync run.
type Options struct {
	// Bucket is the target S3 bucket.
	Bucket string

	// Prefix is an optional key prefix inside the bucket.
	Prefix string

	// Region overrides the region from the AWS environment.
	Region string

	// Delete removes remote objects with no local counterpart.
	Delete bool

	// DryRun reports what would happen without touching the bucket.
	DryRun bool

	// Logger receives progress output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Result summarizes a sync run.
type Result struct {
	Uploaded int
	Skipped  int
	Deleted  int
}

// Syncer uploads a local directory tree into an S3 bucket.
type Syncer struct {
	client S3API
	opts   Options
	logger *slog.Logger
}

// New creates a syncer with the given client.
func New(client S3API, opts Options) *Syncer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{client: client, opts: opts, logger: logger}
}

// NewFromEnv creates a syncer with a real S3 client resolved from the
// AWS environment (credentials, shared config, region).
func NewFromEnv(ctx context.Context, opts Options) (*Syncer, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New("E182").Wrap(err)
	}

	return New(s3.NewFromConfig(cfg), opts), nil
}

// Sync uploads dir into the bucket and returns what changed.
func (s *Syncer) Sync(ctx context.Context, dir string) (Result, error) {
	var result Result

	if s.opts.Bucket == "" {
		return result, errors.New("E180")
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return result, errors.New("E184").WithDetail("Output directory: " + dir)
	}

	remote, err := s.listRemote(ctx)
	if err != nil {
		return result, errors.New("E183").Wrap(err)
	}

	seen := make(map[string]struct{})

	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		key := s.key(rel)
		seen[key] = struct{}{}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		sum := md5.Sum(data)
		local := hex.EncodeToString(sum[:])
		if etag, ok := remote[key]; ok && etag == local {
			result.Skipped++
			return nil
		}

		if s.opts.DryRun {
			s.logger.Info("would upload", "key", key, "bytes", len(data))
			result.Uploaded++
			return nil
		}

		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.opts.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType(p)),
		})
		if err != nil {
			return errors.New("E181").WithDetail("Key: " + key).Wrap(err)
		}

		s.logger.Info("uploaded", "key", key, "bytes", len(data))
		result.Uploaded++
		return nil
	})
	if err != nil {
		if te, ok := err.(*errors.ToolError); ok {
			return result, te
		}
		return result, errors.New("E181").Wrap(err)
	}

	if s.opts.Delete {
		deleted, err := s.deleteStale(ctx, remote, seen)
		result.Deleted = deleted
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

// listRemote returns the bucket contents under the prefix as key → ETag.
func (s *Syncer) listRemote(ctx context.Context) (map[string]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.opts.Bucket),
	}
	if p := s.normalPrefix(); p != "" {
		input.Prefix = aws.String(p + "/")
	}

	remote := make(map[string]string)
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			etag := ""
			if obj.ETag != nil {
				etag = strings.Trim(*obj.ETag, `"`)
			}
			remote[*obj.Key] = etag
		}
	}

	return remote, nil
}

// deleteStale removes remote keys that were not seen locally.
func (s *Syncer) deleteStale(ctx context.Context, remote map[string]string, seen map[string]struct{}) (int, error) {
	var stale []string
	for key := range remote {
		if _, ok := seen[key]; !ok {
			stale = append(stale, key)
		}
	}
	sort.Strings(stale)

	if len(stale) == 0 {
		return 0, nil
	}

	if s.opts.DryRun {
		for _, key := range stale {
			s.logger.Info("would delete", "key", key)
		}
		return len(stale), nil
	}

	for start := 0; start < len(stale); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(stale) {
			end = len(stale)
		}

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range stale[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.opts.Bucket),
			Delete: &types.Delete{Objects: objects},
		})
		if err != nil {
			return start, errors.New("E185").Wrap(err)
		}
	}

	for _, key := range stale {
		s.logger.Info("deleted", "key", key)
	}
	return len(stale), nil
}

// key maps a local relative path to its bucket key.
func (s *Syncer) key(rel string) string {
	key := filepath.ToSlash(rel)
	if p := s.normalPrefix(); p != "" {
		key = p + "/" + key
	}
	return key
}

func (s *Syncer) normalPrefix() string {
	return strings.Trim(s.opts.Prefix, "/")
}

// contentType derives the MIME type from the file extension.
func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
