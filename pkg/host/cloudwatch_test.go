package host

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/vango-go/reactor/pkg/vdom"
)

type fakeLogs struct {
	createErr error
	creates   int
	events    []types.InputLogEvent
}

func (f *fakeLogs) CreateLogStream(ctx context.Context, in *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	f.creates++
	return &cloudwatchlogs.CreateLogStreamOutput{}, f.createErr
}

func (f *fakeLogs) PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	if *in.LogGroupName != "group" || *in.LogStreamName != "stream" {
		return nil, errors.New("wrong destination")
	}
	f.events = append(f.events, in.LogEvents...)
	return &cloudwatchlogs.PutLogEventsOutput{}, nil
}

func TestLogStream(t *testing.T) {
	client := &fakeLogs{}
	l := NewLogStream(client, "group", "stream")
	for seq := uint64(1); seq <= 2; seq++ {
		if err := l.Commit(commit(seq)); err != nil {
			t.Fatal(err)
		}
	}

	if client.creates != 1 {
		t.Errorf("creates = %d, want 1", client.creates)
	}
	if len(client.events) != 2 {
		t.Fatalf("events = %d", len(client.events))
	}
	ev := client.events[1]
	if !strings.Contains(*ev.Message, `"seq":2`) || *ev.Timestamp != commit(2).At.UnixMilli() {
		t.Errorf("event = %s at %d", *ev.Message, *ev.Timestamp)
	}
}

func TestLogStreamExisting(t *testing.T) {
	client := &fakeLogs{createErr: &types.ResourceAlreadyExistsException{}}
	if err := NewLogStream(client, "group", "stream").Commit(commit(1)); err != nil {
		t.Fatalf("existing stream should be reused: %v", err)
	}
	if len(client.events) != 1 {
		t.Errorf("events = %d", len(client.events))
	}
}

func TestLogStreamCreateError(t *testing.T) {
	client := &fakeLogs{createErr: errors.New("access denied")}
	err := NewLogStream(client, "group", "stream").Commit(commit(1))
	if err == nil || !strings.Contains(err.Error(), "group/stream") {
		t.Errorf("err = %v", err)
	}
}

func TestLogStreamTooLarge(t *testing.T) {
	c := commit(1)
	c.Tree = vdom.Text(strings.Repeat("x", maximumBytesPerEvent))
	err := NewLogStream(&fakeLogs{}, "group", "stream").Commit(c)
	if !errors.Is(err, ErrRecordTooLarge) {
		t.Errorf("err = %v", err)
	}
}
