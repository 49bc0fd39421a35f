package pipeline

type State int

const (
	StateIdle State = iota
	StateRequirementsExtracted
	StateEvidenceExtracted
	StateGapAnalyzed
	StateFeedbackReady
	StateTerminal
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequirementsExtracted:
		return "requirements_extracted"
	case StateEvidenceExtracted:
		return "evidence_extracted"
	case StateGapAnalyzed:
		return "gap_analyzed"
	case StateFeedbackReady:
		return "feedback_ready"
	case StateTerminal:
		return "terminal"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Stage string

const (
	StageRequirements Stage = "requirements"
	StageEvidence     Stage = "evidence"
	StageGapAnalysis  Stage = "gap_analysis"
	StageFeedback     Stage = "feedback"
)

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeRejected  Outcome = "rejected"
)
