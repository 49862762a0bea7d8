package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:     config.AppConfig{Name: "library", Env: "test"},
		Log:     config.LogConfig{Level: "debug", Format: "json", Output: filepath.Join(t.TempDir(), "library.log")},
		Tracing: config.TracingConfig{ServiceName: "library", SampleRatio: 1},
		Metrics: config.MetricsConfig{Namespace: "library"},
		Seed: config.SeedConfig{
			Books: []config.SeedBook{
				{ID: "ISBN-L1", Title: "A Arte da Guerra", Author: "Sun Tzu", Year: 500},
				{ID: "ISBN-L2", Title: "1984", Author: "George Orwell", Year: 1949},
			},
			Members: []config.SeedMember{
				{ID: "M-100", Name: "Carlos Dantas"},
				{ID: "M-200", Name: "Mariana Lima"},
			},
			Loans: []config.SeedLoan{
				{BookID: "ISBN-L1", MemberID: "M-100"},
			},
		},
	}
}

func TestApp_Run(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, config.Validate(cfg))

	app, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)

	stats, err := app.Run(context.Background())
	cleanup()

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Books)
	assert.Equal(t, 1, stats.Available)
	assert.Equal(t, 1, stats.OnLoan)
	assert.Equal(t, 2, stats.Members)
	assert.Equal(t, 1, stats.Loans)

	content, err := os.ReadFile(cfg.Log.Output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "目录摘要")
}

func TestApp_RunUsesGlobalTracer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tracing.Enabled = true

	app, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")

	_, err = app.Run(context.Background())
	require.NoError(t, err)

	content, err := os.ReadFile(cfg.Log.Output)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"trace_id"`, "日志应关联app.run的TraceID")
}

func TestApp_RunRejectsBadSeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Seed.Loans = append(cfg.Seed.Loans, config.SeedLoan{BookID: "ISBN-L9", MemberID: "M-200"})

	app, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	_, err = app.Run(context.Background())

	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestProvideSeedRequest(t *testing.T) {
	req := provideSeedRequest(testConfig(t))

	require.Len(t, req.Books, 2)
	assert.Equal(t, 1949, req.Books[1].PublicationYear)
	assert.Equal(t, "Mariana Lima", req.Members[1].Name)
	assert.Equal(t, "M-100", req.Loans[0].MemberID)
}
