package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.trai.ch/confgen/internal/adapters/catalog"
	"go.trai.ch/confgen/internal/core/domain"
	"go.trai.ch/zerr"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "confgen.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

func TestLoad_Success(t *testing.T) {
	content := `
version: "1"
program: demo
features:
  - id: mmap
    program: |
      #include <sys/mman.h>
      int main(void) { return 0; }
    families: [unix]
  - id: threads
    program: "int main(void) { return 0; }"
    link: [pthread]
libraries:
  - name: z
    probe: zlib_inflate
modules:
  - name: core
    sources: [core/core.c]
  - name: net
    sources: [net/net.c]
    features: [threads]
    modules: [core]
    optional: true
    default: true
`
	c, err := catalog.NewLoader().Load(writeCatalog(t, content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Program() != "demo" {
		t.Errorf("expected program demo, got %s", c.Program())
	}

	// Declaration order must survive the round trip.
	features := c.Features()
	if len(features) != 2 || features[0].ID != "mmap" || features[1].ID != "threads" {
		t.Fatalf("expected features [mmap threads] in order, got %v", features)
	}
	if len(features[0].Families) != 1 || features[0].Families[0] != domain.FamilyUnix {
		t.Errorf("expected mmap to be unix-only, got %v", features[0].Families)
	}
	if len(features[1].LinkLibs) != 1 || features[1].LinkLibs[0] != "pthread" {
		t.Errorf("expected threads to link pthread, got %v", features[1].LinkLibs)
	}

	mod, ok := c.Module("net")
	if !ok {
		t.Fatal("expected module net to be declared")
	}
	if !mod.Optional || !mod.Default {
		t.Errorf("expected net to be optional and default-on, got %+v", mod)
	}
	if len(mod.RequiredModules) != 1 || mod.RequiredModules[0] != "core" {
		t.Errorf("expected net to require core, got %v", mod.RequiredModules)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalog.NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T: %v", err, err)
	}
	if path, ok := zErr.Metadata()["path"].(string); !ok || path == "" {
		t.Errorf("expected metadata path to be set, got %v", zErr.Metadata()["path"])
	}
}

func TestLoad_ParseError(t *testing.T) {
	_, err := catalog.NewLoader().Load(writeCatalog(t, "features: [unclosed"))
	if err == nil {
		t.Fatal("expected error for malformed YAML, got nil")
	}
}

func TestLoad_FeatureWithoutProgram(t *testing.T) {
	content := `
features:
  - id: mmap
`
	_, err := catalog.NewLoader().Load(writeCatalog(t, content))
	if err == nil {
		t.Fatal("expected error for feature without probe program, got nil")
	}
	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if id := zErr.Metadata()["feature"]; id != "mmap" {
		t.Errorf("expected metadata feature=mmap, got %v", id)
	}
}

func TestLoad_UnknownFamily(t *testing.T) {
	content := `
features:
  - id: mmap
    program: "int main(void) { return 0; }"
    families: [plan9]
`
	_, err := catalog.NewLoader().Load(writeCatalog(t, content))
	if err == nil {
		t.Fatal("expected error for unknown OS family, got nil")
	}
	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if fam := zErr.Metadata()["family"]; fam != "plan9" {
		t.Errorf("expected metadata family=plan9, got %v", fam)
	}
}

func TestLoad_InvalidModuleName(t *testing.T) {
	content := `
modules:
  - name: "bad name"
`
	_, err := catalog.NewLoader().Load(writeCatalog(t, content))
	if err == nil {
		t.Fatal("expected error for invalid module name, got nil")
	}
	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if name := zErr.Metadata()["module"]; name != "bad name" {
		t.Errorf("expected metadata module=%q, got %v", "bad name", name)
	}
}

func TestLoad_DuplicateModule(t *testing.T) {
	content := `
modules:
  - name: core
  - name: core
`
	_, err := catalog.NewLoader().Load(writeCatalog(t, content))
	if err == nil {
		t.Fatal("expected error for duplicate module, got nil")
	}
}

func TestLoad_LibraryResolution(t *testing.T) {
	content := `
libraries:
  - name: z
    probe: zlib_inflate
modules:
  - name: compress
    libraries: [z, m]
`
	c, err := catalog.NewLoader().Load(writeCatalog(t, content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mod, ok := c.Module("compress")
	if !ok {
		t.Fatal("expected module compress to be declared")
	}
	if len(mod.RequiredLibs) != 2 {
		t.Fatalf("expected 2 library refs, got %d", len(mod.RequiredLibs))
	}

	// Declared libraries carry their probe; undeclared ones get a bare ref
	// that resolves through an implicit link check.
	if mod.RequiredLibs[0].Name != "z" || mod.RequiredLibs[0].Probe != "zlib_inflate" {
		t.Errorf("expected declared ref {z zlib_inflate}, got %+v", mod.RequiredLibs[0])
	}
	if mod.RequiredLibs[1].Name != "m" || mod.RequiredLibs[1].Probe != "" {
		t.Errorf("expected bare ref {m}, got %+v", mod.RequiredLibs[1])
	}
}
