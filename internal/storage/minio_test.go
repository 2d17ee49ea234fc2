package storage

import (
	"context"
	"testing"
	"time"

	"github.com/bookstore/bookstore-api/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewMinIOStorage_NotConfigured(t *testing.T) {
	_, err := NewMinIOStorage(config.MinIOConfig{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

// With a region set the client signs URLs locally, so no server is needed.
func TestCoverURL_Presigned(t *testing.T) {
	s, err := NewMinIOStorage(config.MinIOConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "book-covers",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	u, err := s.CoverURL(context.Background(), CoverKey("abc"), 5*time.Minute)
	require.NoError(t, err)
	require.Contains(t, u, "/book-covers/covers/abc")
	require.Contains(t, u, "X-Amz-Signature=")
	require.Contains(t, u, "X-Amz-Expires=300")
}
