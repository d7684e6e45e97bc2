package cc

import (
	"context"
	"os"
	"strings"

	"github.com/grindlemire/graft"
	"go.trai.ch/confgen/internal/core/ports"
)

// NodeID is the unique identifier for the probe runner Graft node.
const NodeID graft.ID = "adapter.cc"

func init() {
	graft.Register(graft.Node[ports.ProbeRunner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProbeRunner, error) {
			opts := []Option{
				WithBaseFlags(strings.Fields(os.Getenv("CFLAGS"))),
			}

			// Opt-in persistent probe cache, the config.cache of this tool.
			if path := os.Getenv("CONFGEN_PROBE_CACHE"); path != "" {
				cache, err := OpenCache(path)
				if err != nil {
					return nil, err
				}
				opts = append(opts, WithPersistentCache(cache))
			}

			return New(os.Getenv("CC"), opts...)
		},
	})
}
