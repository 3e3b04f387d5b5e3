package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-stepform/pkg/model"
)

// Load parses a JSON or YAML form definition. JSON is tried first.
func Load(data []byte) (model.FormDefinition, error) {
	return parse(data, "<inline>")
}

// LoadFile reads and parses the definition stored at path.
func LoadFile(path string) (model.FormDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return parse(data, path)
}

// LoadFS reads and parses the definition stored at path inside fsys.
func LoadFS(fsys fs.FS, path string) (model.FormDefinition, error) {
	if fsys == nil {
		return model.FormDefinition{}, fmt.Errorf("definition: filesystem is nil")
	}
	if !isDefinitionFile(path) {
		return model.FormDefinition{}, fmt.Errorf("definition: %s is not a JSON or YAML file", path)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, source string) (model.FormDefinition, error) {
	var def model.FormDefinition
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.FormDefinition{}, fmt.Errorf("definition: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &def); err == nil {
		return def, nil
	}

	def = model.FormDefinition{}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return model.FormDefinition{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return def, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
