package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/mechsim/internal/core/events/bus"
	"github.com/zeusync/mechsim/internal/core/observability/log"
)

// BusFactory hands every scenario its own event bus so concurrent runs never
// share subscribers.
type BusFactory func() bus.EventBus

// App holds the process-wide dependencies of the CLI.
type App struct {
	Logger *log.Logger
	NewBus BusFactory
}

var ProviderSet = wire.NewSet(ProvideLogger, ProvideBusFactory, NewApp)

func ProvideLogger(level log.Level) *log.Logger {
	return log.New(level)
}

func ProvideBusFactory() BusFactory {
	return bus.New
}

func NewApp(logger *log.Logger, newBus BusFactory) *App {
	return &App{Logger: logger, NewBus: newBus}
}
