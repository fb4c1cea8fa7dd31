package filesystem

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	pages   [][]string
	objects map[string]string
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := 0
	if params.ContinuationToken != nil {
		page = int((*params.ContinuationToken)[0] - '0')
	}
	out := &s3.ListObjectsV2Output{}
	for _, k := range f.pages[page] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if page+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(string(rune('0' + page + 1)))
	}
	return out, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3ListFiles(t *testing.T) {
	fs := &S3{client: &fakeS3{pages: [][]string{{"a.xlsx", "b.csv"}, {"c.xlsx"}}}}

	keys, err := fs.ListFiles(context.Background(), "holidays")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.xlsx", "b.csv", "c.xlsx"}, keys)
}

func TestS3ReadFile(t *testing.T) {
	fs := &S3{client: &fakeS3{objects: map[string]string{"b.csv": "date,AU\n"}}}

	var buf bytes.Buffer
	require.NoError(t, fs.ReadFile(context.Background(), "holidays", "b.csv", &buf))
	assert.Equal(t, "date,AU\n", buf.String())

	err := fs.ReadFile(context.Background(), "holidays", "missing.csv", &buf)
	assert.ErrorContains(t, err, "missing.csv")
}
