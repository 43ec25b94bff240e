package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/tendant/carbon-tracker/pkg/domain"
)

// details is the JSONB shape of a variant payload. Only the fields of the
// stored type are written.
type details struct {
	Name           string `json:"name,omitempty"`
	Workflow       string `json:"workflow,omitempty"`
	Classification string `json:"classification,omitempty"`
	Year           int    `json:"year,omitempty"`
	Make           string `json:"make,omitempty"`
	Model          string `json:"model,omitempty"`
}

func encodeDetails(v domain.Variant) (string, []byte, error) {
	var d details
	switch v := v.(type) {
	case domain.Workflow:
		d = details{Name: v.Name, Workflow: v.Steps}
	case domain.Vendor:
		d = details{Name: v.Name, Classification: v.Classification}
	case domain.Vehicle:
		d = details{Year: v.Year, Make: v.Make, Model: v.Model}
	default:
		return "", nil, fmt.Errorf("unsupported variant %T", v)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return "", nil, err
	}
	return string(v.SystemType()), raw, nil
}

func decodeDetails(systemType string, raw []byte) (domain.Variant, error) {
	var d details
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", systemType, err)
		}
	}

	switch domain.SystemType(systemType) {
	case domain.SystemTypeWorkflow:
		return domain.Workflow{Name: d.Name, Steps: d.Workflow}, nil
	case domain.SystemTypeVendor:
		return domain.Vendor{Name: d.Name, Classification: d.Classification}, nil
	case domain.SystemTypeVehicle:
		return domain.Vehicle{Year: d.Year, Make: d.Make, Model: d.Model}, nil
	default:
		return nil, fmt.Errorf("unknown system type %q", systemType)
	}
}
