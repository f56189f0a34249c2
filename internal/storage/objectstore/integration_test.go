//go:build integration

package objectstore

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"post_syncer/internal/domain"
)

type MinioIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	store     *Store
}

func (s *MinioIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:RELEASE.2024-08-17T01-24-54Z",
			Cmd:          []string{"server", "/data"},
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	endpoint, err := container.PortEndpoint(s.ctx, "9000/tcp", "")
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := New(Config{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "media-test",
	}, logger)
	s.Require().NoError(err)
	s.Require().NoError(store.EnsureBucket(s.ctx))
	s.store = store
}

func (s *MinioIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestMinioIntegrationSuite(t *testing.T) {
	suite.Run(t, new(MinioIntegrationSuite))
}

func (s *MinioIntegrationSuite) TestEnsureBucket_Idempotent() {
	s.NoError(s.store.EnsureBucket(s.ctx))
}

func (s *MinioIntegrationSuite) TestPutAndGet() {
	data := []byte("\x89PNG\r\n\x1a\nfake image")

	err := s.store.Put(s.ctx, "media/1/photo.png", bytes.NewReader(data), int64(len(data)), "image/png")
	s.Require().NoError(err)

	rc, err := s.store.Get(s.ctx, "media/1/photo.png")
	s.Require().NoError(err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	s.Require().NoError(err)
	s.Equal(data, got)
}

func (s *MinioIntegrationSuite) TestGet_MissingKey() {
	_, err := s.store.Get(s.ctx, "media/404/missing.png")
	s.ErrorIs(err, domain.ErrNotFound)
}
