package injector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/behave/internal/config"
	"github.com/zeusync/behave/internal/core/bt"
	"github.com/zeusync/behave/internal/core/bt/loader"
	"github.com/zeusync/behave/internal/host"
)

func TestInitializeApp(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "error"
	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)

	_, ok := app.Registry.Lookup("Selector")
	assert.True(t, ok)

	def, err := loader.LoadYAML(strings.NewReader(`root: {type: Result, params: {ret: SUCCESS}}`))
	require.NoError(t, err)
	_, err = app.Host.Spawn(def)
	require.NoError(t, err)
	res := app.Host.Frame()
	require.Len(t, res, 1)
	assert.Equal(t, bt.Success, res[0].Ret)

	cleanup()
	_, err = app.Host.Spawn(def)
	assert.ErrorIs(t, err, host.ErrClosed)
}
