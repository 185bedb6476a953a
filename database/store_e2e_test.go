//go:build e2e
// +build e2e

package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/mindsgn-studio/price-watch/internal/model"
	"github.com/mindsgn-studio/price-watch/recorder"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startContainer(t *testing.T, ctx context.Context, req testcontainers.ContainerRequest, port string) string {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start %s container", req.Image)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mapped, err := container.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

func setupMongo(t *testing.T, ctx context.Context) Store {
	addr := startContainer(t, ctx, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
	}, "27017")

	store, err := Open(ctx, model.Config{
		StoreURI:   "mongodb://" + addr,
		DBName:     "paintball_test",
		PricesColl: "prices",
	})
	require.NoError(t, err)
	return store
}

func setupPostgres(t *testing.T, ctx context.Context) Store {
	addr := startContainer(t, ctx, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "watch",
			"POSTGRES_PASSWORD": "watch",
			"POSTGRES_DB":       "paintball",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")

	store, err := Open(ctx, model.Config{
		StoreURI:   fmt.Sprintf("postgres://watch:watch@%s/paintball?sslmode=disable", addr),
		PricesColl: "prices",
	})
	require.NoError(t, err)
	return store
}

func exerciseRecorder(t *testing.T, ctx context.Context, store Store) {
	t.Helper()
	defer store.Close(ctx)

	r := recorder.New(store, zerolog.Nop())
	const (
		product = "Spire V"
		link    = "https://virtuepb.com/products/virtue-spire-v-loader-black"
	)
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	outcome, err := r.Record(ctx, product, "189.95", link, day.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.Inserted, outcome)

	outcome, err = r.Record(ctx, product, "189.95", link, day.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.Skipped, outcome)

	outcome, err = r.Record(ctx, product, "179.95", link, day.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.Updated, outcome)

	from, to := recorder.DayWindow(day)
	rec, err := store.FindLatest(ctx, product, link, from, to)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "179.95", rec.Price)
	assert.True(t, rec.Date.Equal(day.Add(10*time.Hour)))

	outcome, err = r.Record(ctx, product, "179.95", link, day.Add(30*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.Inserted, outcome)

	none, err := store.FindLatest(ctx, "CTRL 2", link, from, to)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMongoStore_E2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	exerciseRecorder(t, ctx, setupMongo(t, ctx))
}

func TestPostgresStore_E2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	exerciseRecorder(t, ctx, setupPostgres(t, ctx))
}
