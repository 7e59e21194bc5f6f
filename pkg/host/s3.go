package host

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-go/reactor/pkg/reactor"
)

// PutObjectAPI is the part of *s3.Client the archive uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive uploads every commit as a JSON object.
//
// Objects are keyed <prefix><root id>/<seq>.json with the sequence number
// zero-padded so a listing sorts in commit order.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	archive := host.NewS3Archive(s3.NewFromConfig(cfg), "my-bucket", "commits/")
type S3Archive struct {
	client  PutObjectAPI
	bucket  string
	prefix  string
	timeout time.Duration
}

// NewS3Archive creates an archive writing to bucket under prefix.
func NewS3Archive(client PutObjectAPI, bucket, prefix string) *S3Archive {
	return &S3Archive{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		timeout: 10 * time.Second,
	}
}

// WithTimeout sets the per-upload timeout.
func (a *S3Archive) WithTimeout(d time.Duration) *S3Archive {
	a.timeout = d
	return a
}

// Key returns the object key for a commit.
func (a *S3Archive) Key(c *reactor.Commit) string {
	return fmt.Sprintf("%s%s/%010d.json", a.prefix, c.RootID, c.Seq)
}

// Commit implements reactor.Host.
func (a *S3Archive) Commit(c *reactor.Commit) error {
	body, err := Encode(c)
	if err != nil {
		return fmt.Errorf("encode commit %d: %w", c.Seq, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(c)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"root-id":     c.RootID,
			"seq":         strconv.FormatUint(c.Seq, 10),
			"commit-time": c.At.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}
	return nil
}
