package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/maam00/glasshouse/internal/models"
)

func ParseJSONSnapshot(reader io.Reader) (models.Snapshot, error) {
	var raw map[string]any
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON snapshot: %w", err)
	}

	return models.SnapshotFromRaw(raw), nil
}

func ParseJSONDashboard(reader io.Reader) (*models.Dashboard, error) {
	var data models.Dashboard
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON dashboard data: %w", err)
	}

	return &data, nil
}
