// Package store provides functional options for configuring client and
// upload behavior. These follow the functional options pattern for clean,
// composable configuration.
package store

import (
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Option configures the store client at construction time.
type Option func(*clientConfig)

// WithRegion sets the AWS region for object store operations.
// If not specified, uses the region from the default credential chain.
func WithRegion(region string) Option {
	return func(c *clientConfig) {
		c.region = region
	}
}

// WithStaticCredentials sets explicit static credentials for the client.
// This makes the credential pair an explicit input instead of ambient
// environment state picked up by the SDK.
func WithStaticCredentials(accessKey, secretKey string) Option {
	return func(c *clientConfig) {
		c.accessKey = accessKey
		c.secretKey = secretKey
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing.
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) {
		c.endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// Required for S3-compatible services that don't support virtual hosting.
func WithForcePathStyle(forcePathStyle bool) Option {
	return func(c *clientConfig) {
		c.forcePathStyle = forcePathStyle
	}
}

// WithHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts and proxies.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithAWSConfig allows providing a fully constructed AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) Option {
	return func(c *clientConfig) {
		c.customAWSConfig = config
	}
}

// PutOption configures a single Put or ReplacePrefix operation.
type PutOption func(*putConfig)

// WithContentType sets the content type for the uploaded object.
// If not set, the content type is sniffed from the payload.
func WithContentType(contentType string) PutOption {
	return func(c *putConfig) {
		c.contentType = contentType
	}
}

// WithMetadata sets user-defined metadata for the uploaded object.
func WithMetadata(metadata map[string]string) PutOption {
	return func(c *putConfig) {
		if c.metadata == nil {
			c.metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.metadata[k] = v
		}
	}
}

// putConfig collects the per-operation option values for Put.
type putConfig struct {
	contentType string
	metadata    map[string]string
}
