package engine

type PipelinePhase string

const (
	PhaseFields     PipelinePhase = "fields"
	PhaseItems      PipelinePhase = "items"
	PhaseConditions PipelinePhase = "conditions"
)
