package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestPutWritesObject(t *testing.T) {
	putter := &fakePutter{}
	c := NewWithPutter(putter, "feedback-archive")

	err := c.Put(context.Background(), "feedback/2026/10/x.json", []byte(`{"a":1}`), "application/json")
	require.NoError(t, err)

	assert.Equal(t, "feedback-archive", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "feedback/2026/10/x.json", aws.ToString(putter.input.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(7), aws.ToInt64(putter.input.ContentLength))
	assert.Equal(t, `{"a":1}`, string(putter.body))
}

func TestPutWrapsError(t *testing.T) {
	c := NewWithPutter(&fakePutter{err: errors.New("denied")}, "b")

	err := c.Put(context.Background(), "k", nil, "application/json")
	assert.ErrorContains(t, err, "s3://b/k")
}

func TestFeedbackKey(t *testing.T) {
	ts := time.Date(2026, time.March, 4, 23, 30, 0, 0, time.FixedZone("X", 2*3600))
	assert.Equal(t, "feedback/2026/03/abc.json", FeedbackKey("abc", ts))
}

func TestLoadConfigRequiresCredentialsWhenEnabled(t *testing.T) {
	t.Setenv("ARCHIVE_S3_ENABLED", "true")
	t.Setenv("ARCHIVE_S3_ACCESS_KEY_ID", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewClientDisabled(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{})
	assert.Error(t, err)
}
