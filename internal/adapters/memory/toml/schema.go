package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Events  []eventSchema `toml:"events"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported memory schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

// eventSchema keeps the payload as JSON text so that every JSON value,
// including null and mixed arrays, survives a reload unchanged.
type eventSchema struct {
	Key     string `toml:"key"`
	Payload string `toml:"payload"`
}
