package detect

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/confgen/internal/adapters/cc"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/confgen/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/confgen/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/confgen/internal/core/ports"
)

// NodeID is the unique identifier for the detector Graft node.
const NodeID graft.ID = "engine.detect"

func init() {
	graft.Register(graft.Node[*Detector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cc.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Detector, error) {
			runner, err := graft.Dep[ports.ProbeRunner](ctx)
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

			return NewDetector(runner, log, tel), nil
		},
	})
}
