package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Storage implements Storage using S3-compatible object storage.
type S3Storage struct {
	client *s3.Client
	now    func() time.Time
	cfg    Config
}

// New creates a new S3Storage with the given configuration.
func New(cfg Config) (*S3Storage, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3Storage{
		client: s3.New(s3.Options{}, opts...),
		now:    time.Now,
		cfg:    cfg,
	}, nil
}

// Put uploads data from a reader to S3.
func (s *S3Storage) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := &putOptions{contentType: DefaultContentType}
	for _, opt := range opts {
		opt(o)
	}

	var body io.ReadSeeker
	if rs, ok := r.(io.ReadSeeker); ok && size >= 0 {
		body = rs
	} else {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		body = bytes.NewReader(data)
		size = int64(len(data))
	}
	if size == 0 {
		return nil, ErrEmptyFile
	}

	at := o.at
	if at.IsZero() {
		at = s.now()
	}
	key := Key(o.prefix, o.name, at)

	var acl types.ObjectCannedACL
	switch s.cfg.DefaultACL {
	case ACLPublicRead:
		acl = types.ObjectCannedACLPublicRead
	default:
		acl = types.ObjectCannedACLPrivate
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(o.contentType),
		ACL:           acl,
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &FileInfo{
		Key:         key,
		Size:        size,
		ContentType: o.contentType,
		ACL:         s.cfg.DefaultACL,
	}, nil
}

// Get retrieves an object from S3.
func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}

	output, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}

	return output.Body, nil
}

// Delete removes an object from S3.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}

	return nil
}

// Key returns the object key Put generates: {prefix}/{Y}/{m}/{d}/{name}.html.
// An empty name gets a random UUID.
func Key(prefix, name string, at time.Time) string {
	var parts []string

	for _, seg := range strings.Split(prefix, "/") {
		if seg = sanitizePathSegment(seg); seg != "" {
			parts = append(parts, seg)
		}
	}

	parts = append(parts, at.Format("2006"), at.Format("01"), at.Format("02"))

	name = sanitizePathSegment(name)
	if name == "" {
		name = uuid.NewString()
	}
	if !strings.HasSuffix(name, DefaultExtension) {
		name += DefaultExtension
	}

	return strings.Join(append(parts, name), "/")
}

// pathSegmentRegex matches characters that are not safe for path segments.
var pathSegmentRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizePathSegment removes potentially dangerous characters from path segments.
func sanitizePathSegment(segment string) string {
	segment = strings.Trim(segment, " /\\")
	segment = strings.ReplaceAll(segment, "..", "")
	segment = pathSegmentRegex.ReplaceAllString(segment, "_")
	return url.PathEscape(segment)
}

// Ensure S3Storage implements Storage.
var _ Storage = (*S3Storage)(nil)
