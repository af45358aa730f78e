package options

import (
	"github.com/spf13/pflag"
)

var _ IOptions = (*S3Options)(nil)

// S3Options configures the object storage rotated archive files are
// uploaded to.
type S3Options struct {
	Enabled         bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Endpoint        string `json:"endpoint" mapstructure:"endpoint" yaml:"endpoint" validate:"required,hostname_port|hostname"`
	AccessKeyID     string `json:"access-key-id" mapstructure:"access-key-id" yaml:"access-key-id,omitempty"`
	SecretAccessKey string `json:"secret-access-key" mapstructure:"secret-access-key" yaml:"secret-access-key,omitempty"`
	UseSSL          bool   `json:"use-ssl" mapstructure:"use-ssl" yaml:"use-ssl"`
	BucketName      string `json:"bucket-name" mapstructure:"bucket-name" yaml:"bucket-name" validate:"required,min=3,max=63"`
	Prefix          string `json:"prefix" mapstructure:"prefix" yaml:"prefix,omitempty"`
	Region          string `json:"region" mapstructure:"region" yaml:"region,omitempty"`
}

func NewS3Options() *S3Options {
	return &S3Options{
		Endpoint:   "localhost:9000",
		UseSSL:     true,
		BucketName: "navtrack",
		Prefix:     "archive",
		Region:     "us-east-1",
	}
}

func (o *S3Options) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}
	return validateStruct(o)
}

func (o *S3Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.Enabled, "s3.enabled", o.Enabled, "Upload rotated archive files to object storage")
	fs.StringVar(&o.Endpoint, "s3.endpoint", o.Endpoint, "S3 service endpoint (e.g. s3.amazonaws.com or minio.local:9000)")
	fs.StringVar(&o.AccessKeyID, "s3.access-key-id", o.AccessKeyID, "S3 access key ID")
	fs.StringVar(&o.SecretAccessKey, "s3.secret-access-key", o.SecretAccessKey, "S3 secret access key")
	fs.BoolVar(&o.UseSSL, "s3.use-ssl", o.UseSSL, "Enable SSL for S3 connection")
	fs.StringVar(&o.BucketName, "s3.bucket-name", o.BucketName, "S3 bucket name for archive files")
	fs.StringVar(&o.Prefix, "s3.prefix", o.Prefix, "Object key prefix for archive files")
	fs.StringVar(&o.Region, "s3.region", o.Region, "S3 region")
}
