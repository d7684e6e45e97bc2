// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/confgen/internal/adapters/catalog"
	_ "go.trai.ch/confgen/internal/adapters/cc"
	_ "go.trai.ch/confgen/internal/adapters/fsartifact"
	_ "go.trai.ch/confgen/internal/adapters/logger"
	_ "go.trai.ch/confgen/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/confgen/internal/app"
	_ "go.trai.ch/confgen/internal/engine/detect"
	_ "go.trai.ch/confgen/internal/engine/emit"
	_ "go.trai.ch/confgen/internal/engine/resolve"
)
