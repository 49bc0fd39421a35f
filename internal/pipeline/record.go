package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrFieldWritten = errors.New("analysis record field already written")
	ErrFieldUnset   = errors.New("analysis record field read before it was written")
)

// Record accumulates one analysis run. Every field group is written once by
// the stage that produces it and can only be read after that.
type Record struct {
	jobDescription string
	resumeText     string

	requiredSkills   []string
	requiredKeywords []string
	hasRequirements  bool

	presentSkills   []string
	presentKeywords []string
	hasEvidence     bool

	missingSkills   []string
	missingKeywords []string
	hasGaps         bool

	feedback    string
	hasFeedback bool
}

func NewRecord(jobDescription, resumeText string) *Record {
	return &Record{
		jobDescription: jobDescription,
		resumeText:     resumeText,
	}
}

func (r *Record) JobDescription() string { return r.jobDescription }

func (r *Record) ResumeText() string { return r.resumeText }

func (r *Record) SetRequirements(skills, keywords []string) error {
	if r.hasRequirements {
		return errors.Wrap(ErrFieldWritten, "required_skills/required_keywords")
	}
	r.requiredSkills, r.requiredKeywords = orEmpty(skills), orEmpty(keywords)
	r.hasRequirements = true
	return nil
}

func (r *Record) Requirements() (skills, keywords []string, err error) {
	if !r.hasRequirements {
		return nil, nil, errors.Wrap(ErrFieldUnset, "required_skills/required_keywords")
	}
	return r.requiredSkills, r.requiredKeywords, nil
}

func (r *Record) SetEvidence(skills, keywords []string) error {
	if r.hasEvidence {
		return errors.Wrap(ErrFieldWritten, "present_skills/present_keywords")
	}
	r.presentSkills, r.presentKeywords = orEmpty(skills), orEmpty(keywords)
	r.hasEvidence = true
	return nil
}

func (r *Record) Evidence() (skills, keywords []string, err error) {
	if !r.hasEvidence {
		return nil, nil, errors.Wrap(ErrFieldUnset, "present_skills/present_keywords")
	}
	return r.presentSkills, r.presentKeywords, nil
}

func (r *Record) SetGaps(skills, keywords []string) error {
	if r.hasGaps {
		return errors.Wrap(ErrFieldWritten, "missing_skills/missing_keywords")
	}
	r.missingSkills, r.missingKeywords = orEmpty(skills), orEmpty(keywords)
	r.hasGaps = true
	return nil
}

func (r *Record) Gaps() (skills, keywords []string, err error) {
	if !r.hasGaps {
		return nil, nil, errors.Wrap(ErrFieldUnset, "missing_skills/missing_keywords")
	}
	return r.missingSkills, r.missingKeywords, nil
}

func (r *Record) SetFeedback(text string) error {
	if r.hasFeedback {
		return errors.Wrap(ErrFieldWritten, "feedback_text")
	}
	r.feedback = text
	r.hasFeedback = true
	return nil
}

func (r *Record) Feedback() (string, error) {
	if !r.hasFeedback {
		return "", errors.Wrap(ErrFieldUnset, "feedback_text")
	}
	return r.feedback, nil
}

// Report is what a finished run hands to its caller.
type Report struct {
	MissingSkills   []string `json:"missing_skills"`
	MissingKeywords []string `json:"missing_keywords"`
	Feedback        string   `json:"feedback"`
}

func (r *Record) Report() (Report, error) {
	skills, keywords, err := r.Gaps()
	if err != nil {
		return Report{}, err
	}
	feedback, err := r.Feedback()
	if err != nil {
		return Report{}, err
	}
	return Report{
		MissingSkills:   append([]string{}, skills...),
		MissingKeywords: append([]string{}, keywords...),
		Feedback:        feedback,
	}, nil
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
