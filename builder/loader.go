package builder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/drewbarontini/system-runner/config"
)

// RoutineRegistry maintains all loaded routine definitions
type RoutineRegistry struct {
	routines map[string]*config.RoutineConfig
	sources  map[string]string
	mu       sync.RWMutex
}

// NewRoutineRegistry creates a new registry
func NewRoutineRegistry() *RoutineRegistry {
	return &RoutineRegistry{
		routines: make(map[string]*config.RoutineConfig),
		sources:  make(map[string]string),
	}
}

// Register registers a routine definition
func (rr *RoutineRegistry) Register(cfg *config.RoutineConfig, source string) error {
	if err := config.ValidateRoutine(cfg); err != nil {
		return fmt.Errorf("invalid routine definition: %w", err)
	}

	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.routines[cfg.Name] = cfg
	rr.sources[cfg.Name] = source
	return nil
}

// Get returns a routine definition by name
func (rr *RoutineRegistry) Get(name string) (*config.RoutineConfig, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	cfg, exists := rr.routines[name]
	return cfg, exists
}

// Source returns the file a routine was loaded from
func (rr *RoutineRegistry) Source(name string) string {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.sources[name]
}

// List returns all registered routine names, sorted
func (rr *RoutineRegistry) List() []string {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	names := make([]string, 0, len(rr.routines))
	for name := range rr.routines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered routines
func (rr *RoutineRegistry) Count() int {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return len(rr.routines)
}

// LoadRoutineFile loads a single routine file into the registry
func (rr *RoutineRegistry) LoadRoutineFile(path string) (*config.RoutineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	cfg, err := rr.loadRoutineFromBytes(data, filepath.Base(path), path)
	if err != nil {
		return nil, fmt.Errorf("failed to load routine from %s: %w", path, err)
	}
	return cfg, nil
}

// LoadRoutinesFromDirectory loads routines from a filesystem directory
// Invalid files are logged and skipped.
func (rr *RoutineRegistry) LoadRoutinesFromDirectory(dirPath string) error {
	// Check if directory exists
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		// Directory doesn't exist, not an error - simply no custom routines
		return nil
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read routines directory %s: %w", dirPath, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Load only .yaml or .yml files
		if !strings.HasSuffix(entry.Name(), ".yaml") && !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}

		filePath := filepath.Join(dirPath, entry.Name())
		if _, err := rr.LoadRoutineFile(filePath); err != nil {
			// Log warning but continue with other routines
			slog.Warn("Skipping routine file", "file", filePath, "error", err)
			continue
		}
	}

	return nil
}

// loadRoutineFromBytes parses and registers a routine definition
func (rr *RoutineRegistry) loadRoutineFromBytes(data []byte, filename, source string) (*config.RoutineConfig, error) {
	cfg, err := config.ParseRoutine(data)
	if err != nil {
		return nil, err
	}

	// If name is not specified, use the filename
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	if err := rr.Register(cfg, source); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetRoutinesPath returns the path to the custom routines directory
// Checks environment variable first, then uses default directory
func GetRoutinesPath() string {
	// Check environment variable
	if path := os.Getenv("ROUTINE_ROUTINES_DIR"); path != "" {
		return path
	}

	// Default: ~/.system-runner/routines
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./routines" // fallback to local directory
	}

	return filepath.Join(homeDir, ".system-runner", "routines")
}
