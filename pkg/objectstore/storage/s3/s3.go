// Package s3 provides a store driver backed by S3 or an S3-compatible
// service such as MinIO. Containers map to key prefixes within a
// single bucket; a zero-byte object at the container path marks
// container existence.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

// checksumMetaKey carries the caller-supplied checksum through S3
// object metadata, so multipart uploads keep a stable checksum even
// when the ETag is not a plain MD5.
const checksumMetaKey = "objectstore-checksum"

// Config options for the S3 driver.
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)

	// MinIO/S3-compatible service options
	CreateBucketIfNotExist bool // Create bucket if it doesn't exist
}

// Driver is an S3-compatible implementation of objectstore.StoreDriver.
type Driver struct {
	client *s3.Client
	bucket string
	region string
}

// New creates an S3-compatible store driver.
func New(config Config) (*Driver, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	driver := &Driver{
		client: s3.NewFromConfig(awsCfg, s3Options...),
		bucket: config.Bucket,
		region: config.Region,
	}

	if config.CreateBucketIfNotExist {
		if err := driver.createBucketIfNotExists(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return driver, nil
}

// createBucketIfNotExists creates the bucket if it doesn't exist.
func (d *Driver) createBucketIfNotExists(ctx context.Context) error {
	_, err := d.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(d.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) &&
		!strings.Contains(err.Error(), "BadRequest") &&
		!strings.Contains(err.Error(), "NoSuchBucket") {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	createInput := &s3.CreateBucketInput{
		Bucket: aws.String(d.bucket),
	}
	if d.region != "us-east-1" {
		createInput.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(d.region),
		}
	}

	_, err = d.client.CreateBucket(ctx, createInput)
	if err != nil {
		if strings.Contains(err.Error(), "BucketAlreadyExists") ||
			strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (d *Driver) head(ctx context.Context, key string) (*s3.HeadObjectOutput, bool, error) {
	out, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) || strings.Contains(err.Error(), "NotFound") {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to head object: %w", err)
	}
	return out, true, nil
}

func (d *Driver) ContainerExists(ctx context.Context, container *objectstore.Container) (bool, error) {
	_, ok, err := d.head(ctx, container.Path())
	return ok, err
}

func (d *Driver) CreateContainer(ctx context.Context, container *objectstore.Container) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(container.Path()),
		Body:   strings.NewReader(""),
	})
	if err != nil {
		return fmt.Errorf("failed to create container marker: %w", err)
	}
	return nil
}

func (d *Driver) RemoveContainer(ctx context.Context, container *objectstore.Container) error {
	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(container.Path()),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list container: %w", err)
		}
		for _, obj := range page.Contents {
			_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(d.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", aws.ToString(obj.Key), err)
			}
		}
	}
	return nil
}

func (d *Driver) ListContainer(ctx context.Context, container *objectstore.Container, opts objectstore.ListOptions) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(container.Path() + opts.Prefix),
	}
	if opts.Delimiter != "" {
		input.Delimiter = aws.String(opts.Delimiter)
	}
	if opts.Marker != "" {
		input.StartAfter = aws.String(container.Path() + opts.Marker)
	}

	var names []string
	paginator := s3.NewListObjectsV2Paginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == container.Path() {
				continue // container marker
			}
			names = append(names, strings.TrimPrefix(key, container.Path()))
		}
		for _, cp := range page.CommonPrefixes {
			names = append(names, strings.TrimPrefix(aws.ToString(cp.Prefix), container.Path()))
		}
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		if opts.EndMarker != "" && name >= opts.EndMarker {
			break
		}
		out = append(out, name)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (d *Driver) ObjectExists(ctx context.Context, object *objectstore.Object) (bool, error) {
	_, ok, err := d.head(ctx, object.Path())
	return ok, err
}

func (d *Driver) UpdateObject(ctx context.Context, object *objectstore.Object, content io.Reader, checksum string) error {
	uploader := manager.NewUploader(d.client)

	input := &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(object.Path()),
		Body:   content,
	}
	if checksum != "" {
		input.Metadata = map[string]string{checksumMetaKey: checksum}
	}

	if _, err := uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (d *Driver) CopyObject(ctx context.Context, src *objectstore.Object, dst *objectstore.Container, name string) (*objectstore.Object, error) {
	object := objectstore.NewObject(dst, name)

	_, err := d.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(d.bucket),
		Key:        aws.String(object.Path()),
		CopySource: aws.String(d.bucket + "/" + src.Path()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to copy object: %w", err)
	}
	return object, nil
}

func (d *Driver) RemoveObject(ctx context.Context, object *objectstore.Object) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(object.Path()),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// TouchObject refreshes LastModified with a metadata-replacing
// self-copy, the usual S3 idiom.
func (d *Driver) TouchObject(ctx context.Context, object *objectstore.Object) error {
	head, ok, err := d.head(ctx, object.Path())
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("object not found")
	}

	meta := map[string]string{}
	for k, v := range head.Metadata {
		meta[k] = v
	}
	meta["objectstore-touched"] = time.Now().UTC().Format(time.RFC3339)

	_, err = d.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(d.bucket),
		Key:               aws.String(object.Path()),
		CopySource:        aws.String(d.bucket + "/" + object.Path()),
		Metadata:          meta,
		MetadataDirective: types.MetadataDirectiveReplace,
	})
	if err != nil {
		return fmt.Errorf("failed to touch object: %w", err)
	}
	return nil
}

// ObjectChecksum returns the checksum recorded at upload time, falling
// back to the trimmed ETag.
func (d *Driver) ObjectChecksum(ctx context.Context, object *objectstore.Object) (string, error) {
	head, ok, err := d.head(ctx, object.Path())
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("object not found")
	}

	if sum, recorded := head.Metadata[checksumMetaKey]; recorded && sum != "" {
		return sum, nil
	}
	return strings.Trim(aws.ToString(head.ETag), "\""), nil
}

func (d *Driver) ObjectFile(ctx context.Context, object *objectstore.Object) (io.ReadCloser, error) {
	result, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(object.Path()),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, errors.New("object not found")
		}
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	return result.Body, nil
}
