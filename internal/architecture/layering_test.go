package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulesPrefix = "studydesk/internal/modules/"

// walkImports calls fn for every studydesk module import of each non-test Go
// file under root.
func walkImports(t *testing.T, root string, fn func(file, importPath string)) {
	t.Helper()
	fset := token.NewFileSet()
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		for _, imp := range node.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if strings.HasPrefix(importPath, modulesPrefix) {
				fn(filepath.ToSlash(path), importPath)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
}

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "modules"), func(file, importPath string) {
		module := moduleName(file)
		layer := detectLayer(file)
		if module == "" || layer == "" {
			return
		}
		if violatesLayerRule(module, layer, importPath) {
			t.Errorf("forbidden import in %s (%s): %s", file, layer, importPath)
		}
	})
}

// The UI renders module output only; it reaches behaviour through the CLI
// handlers bootstrap hands it.
func TestUIImportsOnlyDTOs(t *testing.T) {
	t.Parallel()
	walkImports(t, filepath.Join("..", "ui"), func(file, importPath string) {
		if detectLayer(importPath+"/") != "dto" {
			t.Errorf("ui file %s imports %s; only dto packages are allowed", file, importPath)
		}
	})
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func violatesLayerRule(module, layer, importPath string) bool {
	target := detectLayer(importPath + "/")
	sameModule := strings.HasPrefix(importPath, modulesPrefix+module+"/")

	if !sameModule {
		// Other modules are reachable only through their inbound port and DTOs,
		// and only from outbound adapters.
		if target != "port/in" && target != "dto" {
			return true
		}
		return layer != "adapter/out" && target == "port/in"
	}

	switch layer {
	case "adapter/in":
		return target != "port/in" && target != "dto"
	case "usecase":
		return target == "adapter/in" || target == "adapter/out"
	case "service":
		return target == "adapter/in" || target == "adapter/out" || target == "usecase"
	case "domain":
		return target != "domain"
	case "port/in":
		return target != "dto" && target != "port/in"
	default:
		return false
	}
}

func TestViolatesLayerRule(t *testing.T) {
	t.Parallel()
	cases := []struct {
		module, layer, imp string
		want               bool
	}{
		{"report", "adapter/out", modulesPrefix + "progress/port/in", false},
		{"report", "adapter/out", modulesPrefix + "progress/dto", false},
		{"report", "service", modulesPrefix + "progress/port/in", true},
		{"report", "adapter/out", modulesPrefix + "progress/service", true},
		{"report", "adapter/out", modulesPrefix + "progress/domain", true},
		{"session", "adapter/in", modulesPrefix + "session/port/in", false},
		{"session", "adapter/in", modulesPrefix + "session/service", true},
		{"session", "service", modulesPrefix + "session/port/out", false},
		{"session", "service", modulesPrefix + "session/usecase", true},
		{"session", "domain", modulesPrefix + "session/port/out", true},
		{"session", "usecase", modulesPrefix + "session/service", false},
	}
	for _, tc := range cases {
		if got := violatesLayerRule(tc.module, tc.layer, tc.imp); got != tc.want {
			t.Errorf("%s %s -> %s: got %v, want %v", tc.module, tc.layer, tc.imp, got, tc.want)
		}
	}
}
