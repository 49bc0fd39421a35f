package pipeline

import (
	"context"

	"github.com/muhammadolammi/skillsync/internal/delegate"
	"github.com/pkg/errors"
)

// step is one edge of the run state machine.
type step struct {
	stage Stage
	from  State
	to    State
	exec  func(*run, context.Context) error
}

var steps = []step{
	{stage: StageRequirements, from: StateIdle, to: StateRequirementsExtracted, exec: (*run).extractRequirements},
	{stage: StageEvidence, from: StateRequirementsExtracted, to: StateEvidenceExtracted, exec: (*run).extractEvidence},
	{stage: StageGapAnalysis, from: StateEvidenceExtracted, to: StateGapAnalyzed, exec: (*run).analyzeGaps},
	{stage: StageFeedback, from: StateGapAnalyzed, to: StateFeedbackReady, exec: (*run).synthesizeFeedback},
}

func (r *run) extractRequirements(ctx context.Context) error {
	shape, err := checked(r.delegate.Structured(ctx, requirementsPrompt(r.record.JobDescription())))
	if err != nil {
		return err
	}
	return r.record.SetRequirements(shape.Skills, shape.Keywords)
}

func (r *run) extractEvidence(ctx context.Context) error {
	shape, err := checked(r.delegate.Structured(ctx, evidencePrompt(r.record.ResumeText())))
	if err != nil {
		return err
	}
	return r.record.SetEvidence(shape.Skills, shape.Keywords)
}

func (r *run) analyzeGaps(ctx context.Context) error {
	requiredSkills, requiredKeywords, err := r.record.Requirements()
	if err != nil {
		return err
	}
	presentSkills, presentKeywords, err := r.record.Evidence()
	if err != nil {
		return err
	}

	prompt := gapPrompt(requiredSkills, requiredKeywords, presentSkills, presentKeywords)
	shape, err := checked(r.delegate.Structured(ctx, prompt))
	if err != nil {
		return err
	}
	return r.record.SetGaps(shape.Skills, shape.Keywords)
}

func (r *run) synthesizeFeedback(ctx context.Context) error {
	requiredSkills, _, err := r.record.Requirements()
	if err != nil {
		return err
	}
	presentSkills, _, err := r.record.Evidence()
	if err != nil {
		return err
	}
	missingSkills, missingKeywords, err := r.record.Gaps()
	if err != nil {
		return err
	}

	text, err := r.delegate.FreeText(ctx, feedbackPrompt(presentSkills, requiredSkills, missingSkills, missingKeywords))
	if err != nil {
		var de *delegate.Error
		if !errors.As(err, &de) {
			err = delegate.TransportFailure(err).Err()
		}
		return err
	}
	return r.record.SetFeedback(text)
}

// checked unwraps a structured result, turning every non-OK tag into an error.
func checked(res delegate.Result) (delegate.Shape, error) {
	switch res.Tag {
	case delegate.TagOK:
		return res.Shape, nil
	case delegate.TagSchemaError, delegate.TagTransportError:
		return delegate.Shape{}, res.Err()
	default:
		return delegate.Shape{}, errors.Errorf("unknown delegate result tag %v", res.Tag)
	}
}
