package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/muhammadolammi/skillsync/internal/config"
	"github.com/muhammadolammi/skillsync/internal/database"
	"github.com/muhammadolammi/skillsync/internal/delegate"
	"github.com/muhammadolammi/skillsync/internal/extract"
	"github.com/muhammadolammi/skillsync/internal/logging"
	"github.com/muhammadolammi/skillsync/internal/metrics"
	"github.com/muhammadolammi/skillsync/internal/pipeline"
	"github.com/muhammadolammi/skillsync/internal/server"
	"github.com/muhammadolammi/skillsync/internal/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skillsync",
		Short: "Find the skills and ATS keywords a resume is missing for a job",
		Long: `skillsync compares a resume with a job description using a hosted language
model. It extracts what the job requires and what the resume shows, reports
the missing skills and keywords, and writes short feedback.`,
		SilenceUsage: true,
	}

	root.AddCommand(newAnalyzeCmd(), newServeCmd(), newWorkerCmd(), newMigrateCmd(), newReportCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var resumePath, jdPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one resume against one job description",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel)

			in, err := readAnalyzeInput(cmd.InOrStdin(), resumePath, jdPath)
			if err != nil {
				return err
			}

			p, err := newPipeline(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}

			report, err := p.Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report, asJSON)
		},
	}

	cmd.Flags().StringVar(&resumePath, "resume", "", "resume file (pdf, docx or txt)")
	cmd.Flags().StringVar(&jdPath, "jd", "", "job description file, or - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel)
			m := metrics.New()

			p, err := newPipeline(cmd.Context(), cfg, logger, m)
			if err != nil {
				return err
			}
			return server.New(p, m, logger).ListenAndServe(cmd.Context(), cfg.HTTPAddr)
		},
	}
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume analysis sessions from RabbitMQ",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateWorker(); err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel)
			ctx := cmd.Context()

			db, err := sql.Open("postgres", cfg.DBURL)
			if err != nil {
				return errors.Wrap(err, "error opening db")
			}
			defer db.Close()

			r2, err := storage.NewR2(ctx, cfg.R2)
			if err != nil {
				return err
			}

			p, err := newPipeline(ctx, cfg, logger, nil)
			if err != nil {
				return err
			}

			conn, err := amqp.Dial(cfg.RabbitMQURL)
			if err != nil {
				return errors.Wrap(err, "error connecting to rabbitmq")
			}
			defer conn.Close()
			publisher, err := newRabbitPublisher(conn)
			if err != nil {
				return err
			}

			wc := &WorkerConfig{
				DB:            database.New(db),
				Resumes:       r2,
				Analyzer:      p,
				Publisher:     publisher,
				RabbitMQURL:   cfg.RabbitMQURL,
				Logger:        logger,
				RetryAttempts: 3,
				RetryBackoff:  500 * time.Millisecond,
			}

			logger.WithField("workers", cfg.Workers).Info("starting consumer pool")
			return wc.StartConsumerWorkerPool(ctx, cfg.Workers)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// migrations need no model settings
			cfg, err := config.Load()
			if err != nil && !errors.Is(err, config.ErrMissingCredential) && !errors.Is(err, config.ErrUnknownProvider) {
				return err
			}
			if err := cfg.ValidateDatabase(); err != nil {
				return err
			}

			db, err := sql.Open("postgres", cfg.DBURL)
			if err != nil {
				return errors.Wrap(err, "error opening db")
			}
			defer db.Close()

			return database.RunMigrations(cmd.Context(), db)
		},
	}
}

func newReportCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report <session-id>",
		Short: "Print the stored results of a worker session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := uuid.Parse(args[0])
			if err != nil {
				return errors.Wrapf(err, "invalid session id %q", args[0])
			}

			cfg, err := config.Load()
			if err != nil && !errors.Is(err, config.ErrMissingCredential) && !errors.Is(err, config.ErrUnknownProvider) {
				return err
			}
			if err := cfg.ValidateDatabase(); err != nil {
				return err
			}

			db, err := sql.Open("postgres", cfg.DBURL)
			if err != nil {
				return errors.Wrap(err, "error opening db")
			}
			defer db.Close()

			return printSessionReport(cmd.Context(), cmd.OutOrStdout(), database.New(db), sessionID, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored results as JSON")
	return cmd
}

// printSessionReport prints a session's status and, once it completed, one
// section per resume.
func printSessionReport(ctx context.Context, w io.Writer, db ReportReader, sessionID uuid.UUID, asJSON bool) error {
	session, err := db.GetAnalysisSession(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Errorf("session %s not found", sessionID)
	}
	if err != nil {
		return errors.Wrapf(err, "error getting session %s", sessionID)
	}

	switch session.Status {
	case database.SessionStatusCompleted:
	case database.SessionStatusFailed:
		return errors.Errorf("session %s failed", sessionID)
	default:
		_, err := fmt.Fprintf(w, "Session %s is %s\n", sessionID, session.Status)
		return err
	}

	stored, err := db.GetGapReports(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Errorf("session %s has no stored results", sessionID)
	}
	if err != nil {
		return errors.Wrapf(err, "error getting results for session %s", sessionID)
	}

	reports := SessionReports{SessionID: sessionID}
	if err := json.Unmarshal(stored.Reports, &reports.Results); err != nil {
		return errors.Wrapf(err, "stored results for session %s are not valid", sessionID)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if _, err := fmt.Fprintf(w, "Session %s: %s\n", sessionID, session.JobTitle); err != nil {
		return err
	}
	for _, r := range reports.Results {
		if _, err := fmt.Fprintf(w, "\n== %s ==\n", r.OriginalFilename); err != nil {
			return err
		}
		if r.IsErrorResult || r.Report == nil {
			if _, err := fmt.Fprintf(w, "error: %s\n", r.Error); err != nil {
				return err
			}
			continue
		}
		if err := printReport(w, *r.Report, false); err != nil {
			return err
		}
	}
	return nil
}

func newPipeline(ctx context.Context, cfg config.Config, logger *logrus.Logger, observer pipeline.Observer) (*pipeline.Pipeline, error) {
	d, err := delegate.New(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create model delegate")
	}
	return pipeline.New(pipeline.Config{
		Model:    cfg.Model,
		Logger:   logger,
		Observer: observer,
	}, d)
}

// readAnalyzeInput loads both documents. A missing path gives empty text so
// the pipeline reports the validation message.
func readAnalyzeInput(stdin io.Reader, resumePath, jdPath string) (pipeline.Input, error) {
	var in pipeline.Input

	if resumePath != "" {
		data, err := os.ReadFile(resumePath)
		if err != nil {
			return in, errors.Wrap(err, "failed to read resume")
		}
		in.ResumeText, err = extract.Text(extract.MimeFromFilename(resumePath), data)
		if err != nil {
			return in, err
		}
	}

	switch jdPath {
	case "":
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return in, errors.Wrap(err, "failed to read job description from stdin")
		}
		in.JobDescription = string(data)
	default:
		data, err := os.ReadFile(jdPath)
		if err != nil {
			return in, errors.Wrap(err, "failed to read job description")
		}
		in.JobDescription = string(data)
	}
	return in, nil
}

func printReport(w io.Writer, report pipeline.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	var sb strings.Builder
	writeGroup(&sb, "Missing Skills", report.MissingSkills)
	writeGroup(&sb, "Missing Keywords", report.MissingKeywords)
	sb.WriteString("Feedback\n")
	sb.WriteString(strings.TrimSpace(report.Feedback))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeGroup(sb *strings.Builder, title string, items []string) {
	sb.WriteString(title)
	sb.WriteString("\n")
	if len(items) == 0 {
		sb.WriteString("  (none)\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(sb, "  - %s\n", item)
	}
	sb.WriteString("\n")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
