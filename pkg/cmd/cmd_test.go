package cmd

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/versify/automation/pkg/persistence/file"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPersistenceProvider(t *testing.T) {
	tests := map[string]string{
		"file:///var/lib/versify":            "file",
		"./data":                             "file",
		"postgres://u:p@localhost:5432/db":   "postgres",
		"postgresql://u:p@localhost:5432/db": "postgres",
		"redis://localhost:6379/0":           "redis",
		"rediss://cache.internal:6380/0":     "redis",
		"mongodb://localhost:27017/versify":  "mongodb",
	}

	for url, expected := range tests {
		assert.Equal(t, expected, PersistenceProvider(url), url)
	}
}

func TestNewPersistence_File(t *testing.T) {
	store, err := NewPersistence(context.Background(), discardLogger(), "file://"+t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &file.Persistence{}, store)
	assert.NoError(t, store.HealthCheck(context.Background()))
}

func TestNewPersistence_Unsupported(t *testing.T) {
	_, err := NewPersistence(context.Background(), discardLogger(), "mongodb://localhost:27017/versify")
	assert.ErrorContains(t, err, "unsupported persistence provider")
}

func TestNewEventBus(t *testing.T) {
	bus, err := NewEventBus("gochannel", "versify-automation-test", discardLogger(), false)
	require.NoError(t, err)
	assert.NoError(t, bus.Close())

	_, err = NewEventBus("rabbitmq", "versify-automation-test", discardLogger(), false)
	assert.ErrorContains(t, err, "unsupported event bus provider")
}

func TestNewEventBus_KafkaWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")

	_, err := NewEventBus("kafka", "versify-automation-test", discardLogger(), false)
	assert.Error(t, err)
}

func TestNewEngine(t *testing.T) {
	store := file.NewPersistence(t.TempDir())

	engine := NewEngine(discardLogger(), store, nil, EngineConfig{
		Services:       ServiceConfig{ContactsURL: "http://contacts.local", APIKey: "k"},
		StrictVersions: true,
	})
	require.NotNil(t, engine)

	result, err := engine.Dispatch(context.Background(), map[string]any{"task_type": "unknown"})
	require.NoError(t, err)
	assert.Empty(t, result)
}
