package s3

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/boiler-images/products/p1/a.png",
		ObjectURL("http://localhost:9000/", "boiler-images", "/products/p1/a.png"))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "minio:9000", hostOf("http://minio:9000"))
	assert.Equal(t, "minio:9000", hostOf("minio:9000"))
}

func TestNewClientValidates(t *testing.T) {
	_, err := NewClient(Options{Bucket: "b"}, nil)
	assert.Error(t, err)
	_, err = NewClient(Options{Endpoint: "http://localhost:9000"}, nil)
	assert.Error(t, err)

	c, err := NewClient(Options{Endpoint: "http://localhost:9000", Bucket: "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", c.publicBaseURL)
}

func TestUploadRejectsEmptyKey(t *testing.T) {
	c, err := NewClient(Options{Endpoint: "http://localhost:9000", Bucket: "b"}, nil)
	require.NoError(t, err)
	_, err = c.Upload(context.Background(), " / ", strings.NewReader("x"), 1, "image/png")
	assert.Error(t, err)
}

func TestNoopUploader(t *testing.T) {
	_, err := NoopUploader{}.Upload(context.Background(), "k", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPublicReadPolicyNamesBucket(t *testing.T) {
	assert.Contains(t, PublicReadPolicy("imgs"), "arn:aws:s3:::imgs/*")
}
