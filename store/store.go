package store

import (
	"bytes"
	"context"
	stderrors "errors"
	"net"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"

	"github.com/Nmudassar/-ETL-Projects/store/errors"
	"github.com/Nmudassar/-ETL-Projects/store/internal/validation"
)

const (
	// DefaultContentType is used when content type detection fails
	DefaultContentType = "application/octet-stream"

	// maxKeysPerDelete is the S3 limit on keys per DeleteObjects request
	maxKeysPerDelete = 1000
)

// Object represents a stored object with its basic metadata.
type Object struct {
	// Key is the object key (path)
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the entity tag for the object
	ETag string
}

// PutResult contains the result of a put operation.
type PutResult struct {
	// Key is the object key that was written
	Key string

	// Size is the size of the written object in bytes
	Size int64

	// ETag is the entity tag returned by the store
	ETag string

	// Duration is how long the operation took
	Duration time.Duration
}

// Put uploads byte data to the object store. The put is atomic: the object
// either fully replaces any previous object at the key or the key is left
// untouched.
//
// Errors:
//   - ErrInvalidInput: if bucket or key is invalid
//   - ErrInvalidCredentials: if the credential pair is rejected
//   - ErrAccessDenied: if the credentials lack permission to write
//   - ErrConnection: if the endpoint is unreachable
//
// Example:
//
//	result, err := client.Put(ctx, "my-bucket", "raw/products/data.parquet", data)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("wrote %s in %v\n", result.Key, result.Duration)
func (c *Client) Put(
	ctx context.Context,
	bucket, key string,
	data []byte,
	opts ...PutOption,
) (*PutResult, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, errors.NewError("put", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, errors.NewError("put", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	config := &putConfig{}
	for _, opt := range opts {
		opt(config)
	}

	contentType := config.contentType
	if contentType == "" {
		contentType = detectContentType(data)
	}

	startTime := time.Now()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}
	if len(config.metadata) > 0 {
		input.Metadata = config.metadata
	}

	result, err := c.api.PutObject(ctx, input)
	if err != nil {
		return nil, errors.NewError("put", classify(err)).WithBucket(bucket).WithKey(key)
	}

	return &PutResult{
		Key:      key,
		Size:     int64(len(data)),
		ETag:     aws.ToString(result.ETag),
		Duration: time.Since(startTime),
	}, nil
}

// Exists checks if an object exists using a HEAD request.
// Returns true if the object exists, false if it doesn't exist, and an
// error for other failures (network issues, permissions).
func (c *Client) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return false, errors.NewError("exists", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return false, errors.NewError("exists", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	_, err := c.api.HeadObject(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, errors.NewError("exists", classify(err)).WithBucket(bucket).WithKey(key)
	}

	return true, nil
}

// List lists all objects under a key prefix, following pagination until the
// listing is exhausted.
func (c *Client) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, errors.NewError("list", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage(err.Error())
	}
	if err := validation.ValidateKeyPrefix(prefix); err != nil {
		return nil, errors.NewError("list", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(prefix).
			WithMessage(err.Error())
	}

	var objects []Object
	var continuationToken *string

	for {
		input := &s3.ListObjectsV2Input{
			Bucket:  aws.String(bucket),
			Prefix:  aws.String(prefix),
			MaxKeys: aws.Int32(1000),
		}
		if continuationToken != nil {
			input.ContinuationToken = continuationToken
		}

		result, err := c.api.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, errors.NewError("list", classify(err)).WithBucket(bucket).WithKey(prefix)
		}

		for _, obj := range result.Contents {
			objects = append(objects, Object{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				ETag:         aws.ToString(obj.ETag),
			})
		}

		if !aws.ToBool(result.IsTruncated) {
			break
		}
		continuationToken = result.NextContinuationToken
	}

	return objects, nil
}

// DeleteMany deletes multiple objects in batches of up to 1000 keys per
// request. Each object deletion succeeds or fails independently on the
// server; the first reported per-object failure is returned as an error.
func (c *Client) DeleteMany(ctx context.Context, bucket string, keys []string) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return errors.NewError("deleteMany", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage(err.Error())
	}
	if len(keys) == 0 {
		return nil
	}

	for start := 0; start < len(keys); start += maxKeysPerDelete {
		end := start + maxKeysPerDelete
		if end > len(keys) {
			end = len(keys)
		}
		batch := keys[start:end]

		identifiers := make([]types.ObjectIdentifier, 0, len(batch))
		for _, key := range batch {
			if key == "" {
				return errors.NewError("deleteMany", errors.ErrInvalidInput).
					WithBucket(bucket).
					WithMessage("empty key in keys slice")
			}
			identifiers = append(identifiers, types.ObjectIdentifier{
				Key: aws.String(key),
			})
		}

		input := &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{
				Objects: identifiers,
				Quiet:   aws.Bool(true),
			},
		}

		result, err := c.api.DeleteObjects(ctx, input)
		if err != nil {
			return errors.NewError("deleteMany", classify(err)).WithBucket(bucket)
		}
		if len(result.Errors) > 0 {
			first := result.Errors[0]
			return errors.NewError("deleteMany", errors.ErrAccessDenied).
				WithBucket(bucket).
				WithKey(aws.ToString(first.Key)).
				WithMessage(aws.ToString(first.Code) + ": " + aws.ToString(first.Message))
		}
	}

	return nil
}

// ReplacePrefix writes data to key after removing every existing object
// under prefix. This gives the caller full-overwrite semantics for a
// dataset's destination: after a successful call, the prefix contains only
// the new object. The individual put is atomic per the store contract; the
// delete-then-put sequence as a whole is not, so a failure between the two
// steps can leave the prefix temporarily empty.
func (c *Client) ReplacePrefix(
	ctx context.Context,
	bucket, prefix, key string,
	data []byte,
	opts ...PutOption,
) (*PutResult, error) {
	if !strings.HasPrefix(key, prefix) {
		return nil, errors.NewError("replacePrefix", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("key must be located under the prefix being replaced")
	}

	existing, err := c.List(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		stale := make([]string, 0, len(existing))
		for _, obj := range existing {
			stale = append(stale, obj.Key)
		}
		if err := c.DeleteMany(ctx, bucket, stale); err != nil {
			return nil, err
		}
	}

	return c.Put(ctx, bucket, key, data, opts...)
}

// detectContentType sniffs the payload content type, falling back to the
// generic binary type.
func detectContentType(data []byte) string {
	if mt := mimetype.Detect(data); mt != nil {
		return mt.String()
	}
	return DefaultContentType
}

// classify converts AWS SDK errors into the package sentinel errors so
// callers can distinguish credential, permission, and connectivity failures
// with errors.Is.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "InvalidToken", "ExpiredToken":
			return errors.ErrInvalidCredentials
		case "AccessDenied", "AllAccessDisabled":
			return errors.ErrAccessDenied
		case "NoSuchBucket":
			return errors.ErrBucketNotFound
		case "NoSuchKey", "NotFound":
			return errors.ErrObjectNotFound
		}
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return errors.ErrConnection
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.ErrConnection
	}
	if strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "no such host") {
		return errors.ErrConnection
	}

	return err
}

// isNotFound reports whether the error is a missing-object response.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey")
}
