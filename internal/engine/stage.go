package engine

import "fmt"

// Stage is one state of the job execution state machine.
type Stage int

const (
	StageInitialize Stage = iota
	StageConfigureAgent
	StageResolveJobSpecification
	StageSetupJob
	StageLaunchJob
	StageMonitorJob
	StageCleanupJob
	StageShutdown
)

var stageNames = [...]string{
	StageInitialize:              "initialize",
	StageConfigureAgent:          "configure_agent",
	StageResolveJobSpecification: "resolve_job_specification",
	StageSetupJob:                "setup_job",
	StageLaunchJob:               "launch_job",
	StageMonitorJob:              "monitor_job",
	StageCleanupJob:              "cleanup_job",
	StageShutdown:                "shutdown",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ForwardStages lists, in order, the stages whose actions run before cleanup.
func ForwardStages() []Stage {
	return []Stage{
		StageConfigureAgent,
		StageResolveJobSpecification,
		StageSetupJob,
		StageLaunchJob,
		StageMonitorJob,
	}
}
