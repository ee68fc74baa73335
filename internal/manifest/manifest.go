// Package manifest edits the Cargo.toml shipped with a generated contract.
package manifest

import (
	"bytes"
	"errors"
	"fmt"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/logging"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// ErrInvalidManifest is returned for Cargo.toml text that is not valid TOML.
var ErrInvalidManifest = errors.New("invalid Cargo.toml")

// Update sets the package license (when non-empty), adds `<crate>/std` to the
// std feature when that feature exists, and declares the crate as a
// dependency without default features, keeping other keys of an existing
// declaration. The result is re-encoded, so comments and key order of the
// input are not preserved.
func Update(cargoToml, license string, crate contract.ExternalCrate) (string, error) {
	doc := map[string]any{}
	if err := toml.Unmarshal([]byte(cargoToml), &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	log := logging.Get(logging.CategoryManifest)

	if license != "" {
		table(doc, "package")["license"] = license
	}

	if features, ok := doc["features"].(map[string]any); ok {
		if std, ok := features["std"].([]any); ok {
			features["std"] = append(std, crate.Name+"/std")
		}
	}

	dep := table(table(doc, "dependencies"), crate.Name)
	dep["version"] = crate.Version
	dep["default-features"] = false

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode Cargo.toml: %w", err)
	}
	log.Debug("updated manifest", zap.String("crate", crate.Name), zap.Bool("license", license != ""))
	return buf.String(), nil
}

// table returns doc[key] as a table, creating it when missing.
func table(doc map[string]any, key string) map[string]any {
	if t, ok := doc[key].(map[string]any); ok {
		return t
	}
	t := map[string]any{}
	doc[key] = t
	return t
}
