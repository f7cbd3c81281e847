package graphstore

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tidewake/pathengine/internal/component"
	"github.com/tidewake/pathengine/internal/graph"
	"github.com/tidewake/pathengine/internal/terrain"
)

var testStore *Store

// TestMain boots a disposable PostgreSQL container and runs the
// embedded migrations once for every test in this package, the same
// shape as the teacher's internal/db test harness.
func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("starting postgres container: %v", err)
	}
	defer func() { _ = container.Terminate(ctx) }()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("getting container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("getting container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	if err := RunMigrations(ctx, dsn); err != nil {
		log.Fatalf("running graph migrations: %v", err)
	}

	testStore, err = New(ctx, dsn)
	if err != nil {
		log.Fatalf("connecting to test graph store: %v", err)
	}
	defer testStore.Close()

	os.Exit(m.Run())
}

func buildStoreGrid(t *testing.T) *terrain.Grid {
	t.Helper()
	w, h := 8, 8
	data := make([]byte, w*h)
	for i := range data {
		data[i] = terrain.PackCell(false, true, false, 5)
	}
	g, err := terrain.LoadGrid(data, w, h)
	require.NoError(t, err)
	return g
}

func TestSaveAndLoadGraphRoundTrips(t *testing.T) {
	ctx := context.Background()
	g := buildStoreGrid(t)
	comps := component.Build(g)
	built, err := graph.Build(ctx, g, comps, 4)
	require.NoError(t, err)
	require.Greater(t, built.NodeCount(), 0)

	key := "test-roundtrip"
	require.NoError(t, testStore.SaveGraph(ctx, key, g, built))

	loaded, found, err := testStore.LoadGraph(ctx, key, g)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, built.NodeCount(), loaded.NodeCount())
	assert.Equal(t, built.EdgeCount(), loaded.EdgeCount())
	assert.Equal(t, built.ClusterSize(), loaded.ClusterSize())
	for i := 0; i < built.EdgeCount(); i++ {
		assert.Equal(t, built.Edge(int32(i)), loaded.Edge(int32(i)))
	}
}

func TestLoadGraphMissingKeyReturnsFalse(t *testing.T) {
	ctx := context.Background()
	g := buildStoreGrid(t)
	_, found, err := testStore.LoadGraph(ctx, "does-not-exist", g)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveGraphReplacesPreviousVersion(t *testing.T) {
	ctx := context.Background()
	g := buildStoreGrid(t)
	comps := component.Build(g)
	built, err := graph.Build(ctx, g, comps, 4)
	require.NoError(t, err)

	key := "test-replace"
	require.NoError(t, testStore.SaveGraph(ctx, key, g, built))
	require.NoError(t, testStore.SaveGraph(ctx, key, g, built))

	loaded, found, err := testStore.LoadGraph(ctx, key, g)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, built.NodeCount(), loaded.NodeCount())
}
