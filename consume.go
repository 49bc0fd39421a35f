package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/skillsync/internal/database"
	"github.com/muhammadolammi/skillsync/internal/extract"
	"github.com/muhammadolammi/skillsync/internal/pipeline"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

const maxParallelResumes = 2

// ErrMalformedMessage marks a queue message that is not a usable Session.
var ErrMalformedMessage = errors.New("malformed session message")

// retry retries fn up to attempts times with linear backoff. Only used for
// storage and database calls; model calls are never retried.
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, errors.Wrapf(ctx.Err(), "retry aborted after %d attempts: %v", i+1, lastErr)
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	return zero, errors.Wrapf(lastErr, "after %d attempts", attempts)
}

func errorReport(resume database.Resume, msg string) ResumeReport {
	return ResumeReport{
		ResumeID:         resume.ID,
		OriginalFilename: resume.OriginalFilename,
		IsErrorResult:    true,
		Error:            msg,
	}
}

func jobDescriptionFor(s Session) string {
	if s.JobTitle == "" {
		return s.JobDescription
	}
	return fmt.Sprintf("Job Title: %s\n\n%s", s.JobTitle, s.JobDescription)
}

// analyzeResume runs one independent pipeline for one stored resume.
func (wc *WorkerConfig) analyzeResume(ctx context.Context, s Session, resume database.Resume) ResumeReport {
	log := wc.Logger.WithFields(logrus.Fields{
		"session_id": s.ID.String(),
		"resume_id":  resume.ID.String(),
		"object_key": resume.ObjectKey,
	})

	data, err := retry(ctx, wc.RetryAttempts, wc.RetryBackoff, func() ([]byte, error) {
		return wc.Resumes.Download(ctx, resume.ObjectKey)
	})
	if err != nil {
		log.WithError(err).Warn("resume download failed")
		return errorReport(resume, fmt.Sprintf("file download error: %v", err))
	}

	mime := resume.Mime
	if mime == "" {
		mime = extract.MimeFromFilename(resume.OriginalFilename)
	}
	text, err := extract.Text(mime, data)
	if err != nil {
		log.WithError(err).Warn("text extraction failed")
		return errorReport(resume, fmt.Sprintf("text extraction error: %v", err))
	}

	report, err := wc.Analyzer.Run(ctx, pipeline.Input{
		JobDescription: jobDescriptionFor(s),
		ResumeText:     text,
	})
	if err != nil {
		log.WithError(err).Warn("resume analysis failed")
		return errorReport(resume, fmt.Sprintf("analysis error: %v", err))
	}

	return ResumeReport{
		ResumeID:         resume.ID,
		OriginalFilename: resume.OriginalFilename,
		Report:           &report,
	}
}

// analyzeSession analyzes every resume in the session and persists one entry
// per resume. A single failed resume does not fail the session.
func (wc *WorkerConfig) analyzeSession(ctx context.Context, s Session) error {
	resumes, err := wc.DB.ListSessionResumes(ctx, s.ID)
	if err != nil {
		return errors.Wrapf(err, "error getting resumes for session %s", s.ID)
	}
	if len(resumes) == 0 {
		return errors.Errorf("session %s has no resumes", s.ID)
	}

	results := SessionReports{
		SessionID: s.ID,
		Results:   make([]ResumeReport, len(resumes)),
	}

	g := new(errgroup.Group)
	g.SetLimit(maxParallelResumes)
	for i, resume := range resumes {
		g.Go(func() error {
			results.Results[i] = wc.analyzeResume(ctx, s, resume)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "session analysis interrupted")
	}

	resultsJSON, err := json.Marshal(results.Results)
	if err != nil {
		return errors.Wrap(err, "failed to marshal session reports")
	}

	_, err = retry(ctx, wc.RetryAttempts, wc.RetryBackoff, func() (any, error) {
		return nil, wc.DB.UpsertGapReports(ctx, database.UpsertGapReportsParams{
			SessionID: s.ID,
			Reports:   resultsJSON,
		})
	})
	if err != nil {
		return errors.Wrap(err, "failed to save session reports")
	}
	return nil
}

func (wc *WorkerConfig) setStatus(ctx context.Context, s Session, status, message string) {
	log := wc.Logger.WithFields(logrus.Fields{
		"session_id": s.ID.String(),
		"status":     status,
	})

	err := wc.DB.SetSessionStatus(ctx, database.SetSessionStatusParams{Status: status, ID: s.ID})
	if err != nil {
		log.WithError(err).Error("failed to update session status")
	}
	if err := wc.Publisher.PublishSessionUpdate(s.ID, newSessionUpdate(s.ID, status, message)); err != nil {
		log.WithError(err).Error("failed to publish session update")
	}
}

// handleMessage processes one queue message end to end. It returns
// ErrMalformedMessage only when the body cannot be processed at all; analysis
// failures are recorded on the session instead.
func (wc *WorkerConfig) handleMessage(ctx context.Context, workerID int, body []byte) error {
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return errors.Wrapf(ErrMalformedMessage, "decode: %v", err)
	}
	if s.ID == uuid.Nil {
		return errors.Wrap(ErrMalformedMessage, "missing session id")
	}

	log := wc.Logger.WithFields(logrus.Fields{
		"worker":     workerID,
		"session_id": s.ID.String(),
	})
	log.Info("processing session")
	wc.setStatus(ctx, s, database.SessionStatusProcessing, "analysis started")

	if err := wc.analyzeSession(ctx, s); err != nil {
		log.WithError(err).Error("session analysis failed")
		// status writes must land even when ctx is already cancelled
		wc.setStatus(context.WithoutCancel(ctx), s, database.SessionStatusFailed, "analysis failed")
		return nil
	}

	wc.setStatus(ctx, s, database.SessionStatusCompleted, "analysis completed")
	log.Info("session analyzed")
	return nil
}

// settle handles one delivery and acks it. Malformed messages are rejected
// without requeue so the broker moves them to the dead-letter queue.
func (wc *WorkerConfig) settle(ctx context.Context, workerID int, msg amqp.Delivery) {
	log := wc.Logger.WithFields(logrus.Fields{
		"worker":       workerID,
		"delivery_tag": msg.DeliveryTag,
	})

	if err := wc.handleMessage(ctx, workerID, msg.Body); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"body_bytes":   len(msg.Body),
			"content_type": msg.ContentType,
		}).Error("dead-lettering session message")
		if err := msg.Nack(false, false); err != nil {
			log.WithError(err).Error("failed to nack message")
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		log.WithError(err).Error("failed to ack message")
	}
}

func (wc *WorkerConfig) worker(ctx context.Context, id int) error {
	conn, err := amqp.Dial(wc.RabbitMQURL)
	if err != nil {
		return errors.Wrap(err, "error dialling rabbitmq")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "error connecting to rabbitmq channel")
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		deadSessionsQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "failed to declare dead-letter queue")
	}

	_, err = ch.QueueDeclare(
		sessionsQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": deadSessionsQueue,
		},
	)
	if err != nil {
		return errors.Wrap(err, "failed to declare queue")
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return errors.Wrap(err, "failed to set qos")
	}

	msgs, err := ch.Consume(
		sessionsQueue,
		fmt.Sprintf("skillsync-worker-%d", id),
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "error consuming rabbitmq messages")
	}

	wc.Logger.WithField("worker", id).Info("worker started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.Errorf("worker %d: delivery channel closed", id)
			}
			wc.settle(ctx, id, msg)
		}
	}
}

// StartConsumerWorkerPool runs numWorkers consumers until ctx is cancelled or
// one of them fails.
func (wc *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range numWorkers {
		id := i + 1
		g.Go(func() error {
			return wc.worker(gctx, id)
		})
	}
	return g.Wait()
}
