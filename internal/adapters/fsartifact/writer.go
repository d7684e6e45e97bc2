// Package fsartifact publishes the run's output artifacts to the filesystem.
package fsartifact

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/confgen/internal/core/domain"
	"go.trai.ch/confgen/internal/core/ports"
	"go.trai.ch/zerr"
)

// Writer implements ports.ArtifactWriter with an all-or-nothing contract:
// every artifact is staged as a temporary file in the target directory and
// renamed into place only once all writes succeeded. The build plan and the
// capability header are coupled artifacts; a run must never publish one
// without the other.
type Writer struct{}

// NewWriter creates a new artifact Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteAll publishes all artifacts into dir atomically.
func (w *Writer) WriteAll(dir string, artifacts []ports.Artifact) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error())
	}

	staged := make([]string, 0, len(artifacts))
	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for i, a := range artifacts {
		// Staging in the target directory keeps the final rename on one
		// filesystem, where it is atomic.
		tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp%d", a.Name, i))
		if err := os.WriteFile(tmp, a.Data, 0o600); err != nil {
			cleanup()
			wrapped := zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error())
			return zerr.With(wrapped, "artifact", a.Name)
		}
		staged = append(staged, tmp)
	}

	published := make([]string, 0, len(artifacts))
	for i, a := range artifacts {
		final := filepath.Join(dir, a.Name)
		if err := os.Rename(staged[i], final); err != nil {
			// Roll back what already landed so the plan and the header
			// never go out of sync.
			for _, f := range published {
				_ = os.Remove(f)
			}
			cleanup()
			wrapped := zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error())
			return zerr.With(wrapped, "artifact", a.Name)
		}
		published = append(published, final)
	}

	return nil
}
