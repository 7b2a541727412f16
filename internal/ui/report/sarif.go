package report

import (
	"encoding/json"
	"fmt"

	"github.com/duckuio/ducku-cli/internal/core/ports"
	"github.com/duckuio/ducku-cli/internal/shared/version"
)

// SARIF v2.1.0 – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDDeadCode   = "DUCKU001"
	ruleIDEntryPoint = "DUCKU002"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID     string            `json:"ruleId"`
	Level      string            `json:"level"`
	Message    sarifMessage      `json:"message"`
	Locations  []sarifLocation   `json:"locations,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIF renders findings for code scanning integrations. Dead code findings
// are warnings; entry-point-looking files are notes, since they usually need
// a config entry rather than deletion.
type SARIF struct{}

func NewSARIF() *SARIF { return &SARIF{} }

func (s *SARIF) Render(result *ports.Result) ([]byte, error) {
	results := make([]sarifResult, 0, len(result.Findings))
	for _, f := range result.Findings {
		ruleID, level := ruleIDDeadCode, "warning"
		if f.Classification == ports.LikelyEntryPoint {
			ruleID, level = ruleIDEntryPoint, "note"
		}
		results = append(results, sarifResult{
			RuleID: ruleID,
			Level:  level,
			Message: sarifMessage{
				Text: fmt.Sprintf("%s module %s is not reachable from any entry point (%s)",
					f.Language, f.Path, f.Classification),
			},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.Path},
				},
			}},
			Properties: map[string]string{"confidence": string(f.Confidence)},
		})
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "ducku",
				Version: version.Version,
				Rules: []sarifRule{
					{
						ID:               ruleIDDeadCode,
						Name:             "UnusedModule",
						ShortDescription: sarifMessage{Text: "Module unreachable from every entry point"},
						DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
					},
					{
						ID:               ruleIDEntryPoint,
						Name:             "UndeclaredEntryPoint",
						ShortDescription: sarifMessage{Text: "Unreachable module named like an executable"},
						DefaultConfig:    sarifRuleDefaultConfig{Level: "note"},
					},
				},
			}},
			Results: results,
		}},
	}
	return json.MarshalIndent(doc, "", "  ")
}
