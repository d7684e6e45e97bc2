package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/confgen/internal/adapters/catalog"    //nolint:depguard // Wired in app layer
	"go.trai.ch/confgen/internal/adapters/fsartifact" //nolint:depguard // Wired in app layer
	"go.trai.ch/confgen/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/confgen/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/confgen/internal/core/ports"
	"go.trai.ch/confgen/internal/engine/detect"
	"go.trai.ch/confgen/internal/engine/emit"
	"go.trai.ch/confgen/internal/engine/resolve"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components needed by the
// CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			catalog.NodeID,
			detect.NodeID,
			resolve.NodeID,
			emit.NodeID,
			fsartifact.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.CatalogLoader](ctx)
			if err != nil {
				return nil, err
			}

			detector, err := graft.Dep[*detect.Detector](ctx)
			if err != nil {
				return nil, err
			}

			resolver, err := graft.Dep[*resolve.Resolver](ctx)
			if err != nil {
				return nil, err
			}

			emitter, err := graft.Dep[*emit.Emitter](ctx)
			if err != nil {
				return nil, err
			}

			writer, err := graft.Dep[ports.ArtifactWriter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, detector, resolver, emitter, writer, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: application, Logger: log, Telemetry: tel}, nil
		},
	})
}
