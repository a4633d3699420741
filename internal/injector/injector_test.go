package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mechsim/internal/core/observability/log"
)

func TestInitializeApp(t *testing.T) {
	app := InitializeApp(log.LevelWarn)
	require.NotNil(t, app)
	require.NotNil(t, app.Logger)
	assert.Equal(t, log.LevelWarn, app.Logger.GetLevel())

	a, b := app.NewBus(), app.NewBus()
	assert.NotSame(t, a, b)
}
