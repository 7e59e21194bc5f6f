package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/vango-go/reactor/pkg/reactor"
)

// See: http://docs.aws.amazon.com/AmazonCloudWatchLogs/latest/APIReference/API_PutLogEvents.html
const (
	perEventBytes        = 26
	maximumBytesPerEvent = 262144 - perEventBytes
)

// ErrRecordTooLarge is returned for a commit whose record exceeds the
// CloudWatch Logs event size limit.
var ErrRecordTooLarge = errors.New("host: commit record exceeds log event size limit")

// LogsAPI is the part of *cloudwatchlogs.Client the log stream uses.
type LogsAPI interface {
	CreateLogStream(ctx context.Context, in *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// LogStream sends every commit as one CloudWatch Logs event. The stream
// is created on the first commit; an existing stream is reused.
type LogStream struct {
	client  LogsAPI
	group   string
	stream  string
	timeout time.Duration

	mu      sync.Mutex
	created bool
}

// NewLogStream creates a host writing to stream in group.
func NewLogStream(client LogsAPI, group, stream string) *LogStream {
	return &LogStream{
		client:  client,
		group:   group,
		stream:  stream,
		timeout: 10 * time.Second,
	}
}

// Commit implements reactor.Host.
func (l *LogStream) Commit(c *reactor.Commit) error {
	body, err := Encode(c)
	if err != nil {
		return fmt.Errorf("encode commit %d: %w", c.Seq, err)
	}
	if len(body) > maximumBytesPerEvent {
		return fmt.Errorf("commit %d: %w (%d bytes)", c.Seq, ErrRecordTooLarge, len(body))
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.create(ctx); err != nil {
		return err
	}
	_, err = l.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(l.group),
		LogStreamName: aws.String(l.stream),
		LogEvents: []types.InputLogEvent{{
			Message:   aws.String(string(body)),
			Timestamp: aws.Int64(c.At.UnixMilli()),
		}},
	})
	if err != nil {
		return fmt.Errorf("put log event for commit %d: %w", c.Seq, err)
	}
	return nil
}

func (l *LogStream) create(ctx context.Context) error {
	if l.created {
		return nil
	}
	_, err := l.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(l.group),
		LogStreamName: aws.String(l.stream),
	})
	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return fmt.Errorf("create log stream %s/%s: %w", l.group, l.stream, err)
	}
	l.created = true
	return nil
}
