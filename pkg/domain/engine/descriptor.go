package engine

import "strings"

// Descriptor identifies a registered test engine.
// Provenance fields are optional; an empty string means the engine did not
// resolve that field.
type Descriptor struct {
	ID         string `json:"id" yaml:"id"`
	GroupID    string `json:"group_id,omitempty" yaml:"group_id,omitempty"`
	ArtifactID string `json:"artifact_id,omitempty" yaml:"artifact_id,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Provenance returns the present provenance fields in group, artifact,
// version order.
func (d Descriptor) Provenance() []string {
	var fields []string
	for _, f := range []string{d.GroupID, d.ArtifactID, d.Version} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// String renders the descriptor as a single listing line, e.g.
// "junit (org.junit:jupiter:5.10.0)". Nothing is appended when no
// provenance field is present.
func (d Descriptor) String() string {
	fields := d.Provenance()
	if len(fields) == 0 {
		return d.ID
	}
	return d.ID + " (" + strings.Join(fields, ":") + ")"
}
