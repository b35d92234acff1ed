package jobspec

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/stagehand/internal/config"
	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

// ParseRequest loads a job request document from disk, normalizes it the same
// way RequestBuilder does, and validates it.
func ParseRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, agenterrors.NewParseError(path, 0, err)
	}
	return DecodeRequest(path, data)
}

// DecodeRequest parses an in-memory request document. name is used in errors.
func DecodeRequest(name string, data []byte) (*Request, error) {
	var raw Request
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, agenterrors.NewParseError(name, config.ExtractLine(err), err)
	}

	return NewRequestBuilder(raw.Metadata, raw.Criteria).
		WithCommandArgs(raw.CommandArgs).
		WithTimeout(raw.Timeout).
		WithArchivingDisabled(raw.ArchivingDisabled).
		WithInteractive(raw.Interactive).
		WithRequestedAgentEnvironment(raw.RequestedAgentEnvironment).
		WithDependencies(raw.Dependencies).
		Build()
}
