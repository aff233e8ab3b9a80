package curriculum

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bjpl/algolearn/internal/lock"
	"github.com/bjpl/algolearn/internal/models"
)

// Export writes ds to path in the current (curricula + modules) format.
// Concurrent exporters serialize on a sidecar lock and the file is replaced
// atomically, so readers never observe a partial document.
func Export(ctx context.Context, ds *models.Dataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	fl, err := lock.Acquire(ctx, lock.PathFor(path))
	if err != nil {
		return err
	}
	defer fl.Release()

	out := struct {
		Metadata  map[string]interface{} `json:"metadata,omitempty"`
		Curricula []models.Curriculum    `json:"curricula"`
		Modules   []models.Module        `json:"modules"`
	}{
		Metadata:  ds.Metadata,
		Curricula: ds.Curricula,
		Modules:   ds.Modules,
	}
	if out.Curricula == nil {
		out.Curricula = []models.Curriculum{}
	}
	if out.Modules == nil {
		out.Modules = []models.Module{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
