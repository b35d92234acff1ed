package jobspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

const sampleRequest = `
metadata:
  name: nightly-report
  user: etl
  tags: [reports, nightly]
criteria:
  executable: ["/bin/sh", "-c"]
command_args:
  - "echo $REGION > out.txt"
  - ""
timeout: 30
archiving_disabled: true
agent_environment:
  variables:
    REGION: us-east-1
  cpu: 2
  memory_mb: 512
dependencies:
  - url: https://example.com/lib.git
    destination: deps/lib
    branch: main
`

func TestParseRequestFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRequest), 0o644))

	req, err := ParseRequest(path)
	require.NoError(t, err)

	require.Equal(t, "nightly-report", req.Metadata.Name)
	require.Equal(t, []string{"reports", "nightly"}, req.Metadata.Tags)
	require.Equal(t, []string{"/bin/sh", "-c"}, req.Criteria.Executable)
	require.Equal(t, []string{"echo $REGION > out.txt"}, req.CommandArgs)
	require.Equal(t, 30, *req.Timeout)
	require.True(t, req.ArchivingDisabled)
	require.False(t, req.Interactive)
	require.Equal(t, "us-east-1", req.RequestedAgentEnvironment.Variables["REGION"])
	require.Equal(t, 2, req.RequestedAgentEnvironment.CPU)
	require.Equal(t, "deps/lib", req.Dependencies[0].Destination)
}

func TestParseRequestMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseRequest(filepath.Join(t.TempDir(), "nope.yaml"))
	var parseErr *agenterrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestDecodeRequestReportsLine(t *testing.T) {
	t.Parallel()

	_, err := DecodeRequest("job.yaml", []byte("metadata:\n\tname: x\n"))
	var parseErr *agenterrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "job.yaml", parseErr.Path)
	require.Equal(t, 2, parseErr.Line)
}

func TestDecodeRequestValidates(t *testing.T) {
	t.Parallel()

	_, err := DecodeRequest("job.yaml", []byte("metadata:\n  name: x\n  user: y\ncriteria:\n  executable: []\n"))
	var validationErr *agenterrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "criteria.executable", validationErr.Field)
}
