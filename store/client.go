// Package store provides the object store client used to publish converted
// datasets.
//
// The Client wraps the AWS SDK S3 client behind the handful of operations
// the uploader needs: single-object puts, prefix listing, batch deletion,
// and the replace-prefix primitive that gives datasets full-overwrite
// semantics. Credentials are passed in explicitly at construction so the
// client acts as a capability handle rather than relying on ambient state.
package store

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Nmudassar/-ETL-Projects/store/errors"
	"github.com/Nmudassar/-ETL-Projects/store/internal/s3api"
)

// Client is an object store client. It is safe for concurrent use; all
// configuration is fixed at construction time.
type Client struct {
	// api is the underlying AWS SDK S3 client (or a mock in tests)
	api s3api.API

	// config holds the resolved AWS configuration
	config aws.Config
}

// New creates a new object store client with the provided options.
// Without credential options it falls back to the SDK default credential
// chain; production callers pass explicit static credentials from the
// runtime configuration.
//
// Example:
//
//	client, err := store.New(ctx,
//	    store.WithRegion("eu-west-1"),
//	    store.WithStaticCredentials(cfg.AccessKey, cfg.SecretKey),
//	)
func New(ctx context.Context, opts ...Option) (*Client, error) {
	clientCfg := &clientConfig{}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	var err error

	if clientCfg.customAWSConfig != nil {
		cfg = *clientCfg.customAWSConfig
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.region != "" {
		cfg.Region = clientCfg.region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.accessKey != "" || clientCfg.secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentialsProvider(
			clientCfg.accessKey, clientCfg.secretKey, "",
		)
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.endpoint != "" {
		endpoint := clientCfg.endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.forcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	if clientCfg.httpClient != nil {
		httpClient := clientCfg.httpClient
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return &Client{
		api:    s3.NewFromConfig(cfg, s3Opts...),
		config: cfg,
	}, nil
}

// NewWithAPI creates a client with a custom S3 API implementation.
// This is primarily used for testing with mocked clients.
func NewWithAPI(api s3api.API) *Client {
	return &Client{
		api:    api,
		config: aws.Config{},
	}
}

// clientConfig collects the functional option values for New.
type clientConfig struct {
	region          string
	accessKey       string
	secretKey       string
	endpoint        string
	forcePathStyle  bool
	httpClient      *http.Client
	customAWSConfig *aws.Config
}
