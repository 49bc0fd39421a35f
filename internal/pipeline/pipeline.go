// Package pipeline runs the resume analysis: requirement extraction,
// evidence extraction, gap analysis and feedback, strictly in that order.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/skillsync/internal/delegate"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Observer receives stage timings and run outcomes, e.g. for metrics.
type Observer interface {
	StageFinished(stage Stage, elapsed time.Duration, err error)
	RunFinished(outcome Outcome)
}

type Config struct {
	// Model is only used to label logs.
	Model    string
	Logger   *logrus.Logger
	Observer Observer
}

// Pipeline is stateless between runs and safe for concurrent use; each Run
// owns its own record and state machine.
type Pipeline struct {
	delegate delegate.Delegate
	model    string
	logger   *logrus.Logger
	observer Observer
}

func New(cfg Config, d delegate.Delegate) (*Pipeline, error) {
	if d == nil {
		return nil, errors.New("pipeline needs a delegate")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Pipeline{
		delegate: d,
		model:    cfg.Model,
		logger:   logger,
		observer: observer,
	}, nil
}

type Input struct {
	JobDescription string
	ResumeText     string
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.ResumeText) == "" {
		return &ValidationError{Field: "resume", Message: "please upload your resume before analyzing"}
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return &ValidationError{Field: "job_description", Message: "please enter the job description before analyzing"}
	}
	return nil
}

// Run executes one analysis. On any failure it returns a zero Report.
func (p *Pipeline) Run(ctx context.Context, in Input) (Report, error) {
	if err := in.Validate(); err != nil {
		p.observer.RunFinished(OutcomeRejected)
		return Report{}, err
	}

	r := p.newRun(in)
	report, err := r.execute(ctx)
	if err != nil {
		p.observer.RunFinished(OutcomeFailed)
		return Report{}, err
	}
	p.observer.RunFinished(OutcomeCompleted)
	return report, nil
}

type run struct {
	id       uuid.UUID
	state    State
	record   *Record
	delegate delegate.Delegate
	observer Observer
	log      *logrus.Entry
}

func (p *Pipeline) newRun(in Input) *run {
	id := uuid.New()
	return &run{
		id:       id,
		state:    StateIdle,
		record:   NewRecord(in.JobDescription, in.ResumeText),
		delegate: p.delegate,
		observer: p.observer,
		log: p.logger.WithFields(logrus.Fields{
			"run_id": id.String(),
			"model":  p.model,
		}),
	}
}

func (r *run) execute(ctx context.Context) (Report, error) {
	started := time.Now()
	r.log.Info("analysis started")

	for _, s := range steps {
		if r.state != s.from {
			return Report{}, r.fail(s.stage, errors.Errorf("cannot enter %s from state %s", s.to, r.state))
		}
		if err := ctx.Err(); err != nil {
			return Report{}, r.fail(s.stage, err)
		}

		stageStarted := time.Now()
		err := s.exec(r, ctx)
		elapsed := time.Since(stageStarted)
		r.observer.StageFinished(s.stage, elapsed, err)
		if err != nil {
			return Report{}, r.fail(s.stage, err)
		}

		r.state = s.to
		r.log.WithFields(logrus.Fields{
			"stage":       s.stage,
			"state":       r.state.String(),
			"duration_ms": elapsed.Milliseconds(),
		}).Debug("stage completed")
	}

	report, err := r.record.Report()
	if err != nil {
		return Report{}, r.fail(StageFeedback, err)
	}
	r.state = StateTerminal

	r.log.WithFields(logrus.Fields{
		"missing_skills":   len(report.MissingSkills),
		"missing_keywords": len(report.MissingKeywords),
		"duration_ms":      time.Since(started).Milliseconds(),
	}).Info("analysis completed")
	return report, nil
}

func (r *run) fail(stage Stage, err error) error {
	from := r.state
	r.state = StateFailed

	fields := logrus.Fields{
		"stage": stage,
		"state": from.String(),
	}
	var de *delegate.Error
	if errors.As(err, &de) {
		fields["delegate_result"] = de.Tag.String()
	}
	r.log.WithFields(fields).WithError(err).Error("analysis failed")

	return &StageError{Stage: stage, Err: err}
}

type nopObserver struct{}

func (nopObserver) StageFinished(Stage, time.Duration, error) {}

func (nopObserver) RunFinished(Outcome) {}
