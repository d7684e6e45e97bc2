package ports

// Artifact is a rendered output file ready to be published.
type Artifact struct {
	// Name is the file name relative to the output directory.
	Name string
	// Data is the full rendered content.
	Data []byte
}

// ArtifactWriter publishes the run's output artifacts atomically: either
// every artifact lands in the output directory or none does. A run must
// never leave the build plan and the capability header inconsistent with
// each other.
//
//go:generate go run go.uber.org/mock/mockgen -source=artifact_writer.go -destination=mocks/mock_artifact_writer.go -package=mocks
type ArtifactWriter interface {
	WriteAll(dir string, artifacts []Artifact) error
}
