package agent

import (
	"net/http"
	"sync"

	"github.com/budstack/stepflow/config"
	"github.com/budstack/stepflow/container"
	"github.com/budstack/stepflow/flow"
	"github.com/budstack/stepflow/gateway"
	"github.com/budstack/stepflow/logger"
	"github.com/budstack/stepflow/registry"
	"github.com/budstack/stepflow/rest"
	"github.com/spf13/afero"
)

type Agent struct {
	Config         config.Config
	container      *container.DIContainer
	registry       registry.Registry
	sessionService *flow.SessionService
	httpServer     *rest.Server
	shutdown       bool
	shutdownLock   sync.Mutex
}

func New(conf config.Config) (*Agent, error) {
	a := &Agent{
		Config: conf,
	}
	setup := []func() error{
		a.setupContainer,
		a.setupRegistry,
		a.setupSessionService,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupContainer() error {
	a.container = container.NewDiContainer()
	a.container.Init(a.Config)
	return nil
}

func (a *Agent) setupRegistry() error {
	a.registry = registry.NewRegistry(a.container.GetMetadataStorage())
	if len(a.Config.DefinitionDir) > 0 {
		if err := registry.LoadDefinitions(afero.NewOsFs(), a.Config.DefinitionDir, a.registry); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) setupSessionService() error {
	submissionGateway := gateway.NewHttpGateway(a.Config.GatewayUrl, a.Config.GatewayTimeout)
	a.sessionService = flow.NewSessionService(a.registry, a.container.GetSessionStorage(), submissionGateway, a.Config.SessionTTL)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.registry, a.sessionService)
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) Start() error {
	go func() {
		if err := a.httpServer.Start(); err != nil && err != http.ErrServerClosed {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	return a.httpServer.Stop()
}
