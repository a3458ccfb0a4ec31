package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/simmeta/internal/appconfig"
)

func TestInitializeApp(t *testing.T) {
	cfg := appconfig.Default()
	cfg.Dataset = t.TempDir()
	cfg.LogLevel = "silent"

	app := InitializeApp(cfg)
	require.NotNil(t, app)
	assert.Equal(t, cfg.Dataset, app.Library.Root())
	assert.NotNil(t, app.Server)

	_, ok := app.Library.Family("scenes")
	assert.True(t, ok)
}
