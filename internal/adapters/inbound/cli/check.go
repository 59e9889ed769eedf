package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/speccloak/speccloak/internal/adapters/outbound/config"
	"github.com/speccloak/speccloak/internal/adapters/outbound/fsreader"
	"github.com/speccloak/speccloak/internal/adapters/outbound/gitcli"
	"github.com/speccloak/speccloak/internal/adapters/outbound/gitinfo"
	"github.com/speccloak/speccloak/internal/adapters/outbound/history"
	"github.com/speccloak/speccloak/internal/adapters/outbound/report"
	"github.com/speccloak/speccloak/internal/adapters/outbound/resultset"
	"github.com/speccloak/speccloak/internal/application"
	"github.com/speccloak/speccloak/internal/domain"
	"github.com/speccloak/speccloak/internal/logging"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	path            string
	base            string
	format          string
	report          string
	exclude         []string
	applyExclusions bool
	saveHistory     bool
	verbose         bool
}

func (o *checkOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.path, "path", ".", "Project root to check")
	f.StringVar(&o.base, "base", "origin/main", "Base reference to diff against")
	f.StringVar(&o.format, "format", domain.FormatText, "Output format (text, json)")
	f.StringVar(&o.report, "report", "", "Path to .resultset.json (overrides CI/local discovery)")
	f.StringSliceVar(&o.exclude, "exclude", nil, "Extra exclusion patterns (regular expressions)")
	f.BoolVar(&o.applyExclusions, "apply-exclusions", false, "Drop changed files matching an exclusion pattern")
	f.BoolVar(&o.saveHistory, "save-history", false, "Append this run to .speccloak/history/runs.json")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
}

// resolveConfig layers defaults, .speccloak.yml and explicitly set flags.
func (o *checkOptions) resolveConfig(cmd *cobra.Command, projectPath string) (domain.Config, error) {
	cfg, err := config.New().Load(projectPath)
	if err != nil {
		return domain.Config{}, err
	}

	f := cmd.Flags()
	if f.Changed("base") {
		if o.base == "" {
			return domain.Config{}, fmt.Errorf("--base must not be empty")
		}
		cfg.Base = o.base
	}
	if f.Changed("format") {
		cfg.Format = o.format
	}
	if f.Changed("report") {
		cfg.ReportPath = o.report
	}
	if f.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, o.exclude...)
	}
	if f.Changed("apply-exclusions") {
		cfg.ApplyExclusions = o.applyExclusions
	}
	if f.Changed("save-history") {
		cfg.History = o.saveHistory
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	projectPath, err := filepath.Abs(opts.path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := opts.resolveConfig(cmd, projectPath)
	if err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr(), cfg.Format, opts.verbose)
	repo := gitinfo.New()
	warnRepoState(log, repo, projectPath, cfg.Base)

	files := fsreader.New()
	svc := application.NewCheckService(
		gitcli.New(gitcli.NewExecRunner(), projectPath, log),
		resultset.New(os.LookupEnv, cfg.ReportPath),
		files,
		log,
		os.LookupEnv,
	)

	run, err := svc.Run(cmd.Context(), projectPath, cfg)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if run.Stopped != nil {
		fmt.Fprintln(messageWriter(cmd, cfg.Format), run.Stopped.Message)
		return application.Failure(run, run.Stopped.Status)
	}

	status, err := report.New(files, projectPath).Render(cmd.OutOrStdout(), run.Result, cfg.Format)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if cfg.History {
		hash, _ := repo.CommitHash(projectPath)
		entry := domain.NewRunEntry(run.Result, cfg.Base, hash, time.Now())
		if err := history.New().Save(projectPath, entry); err != nil {
			log.Warn("saving run history", "error", err)
		}
	}

	return application.Failure(run, status)
}

// newLogger writes diagnostics in the same encoding as the report.
func newLogger(w io.Writer, format string, verbose bool) logging.Logger {
	if format == domain.FormatJSON {
		return logging.NewJSON(w, logging.LevelFor(verbose))
	}
	return logging.NewText(w, logging.LevelFor(verbose))
}

// messageWriter keeps stdout parseable in json mode.
func messageWriter(cmd *cobra.Command, format string) io.Writer {
	if format == domain.FormatJSON {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func warnRepoState(log logging.Logger, repo domain.GitInfo, projectPath, base string) {
	if !repo.IsGitRepo(projectPath) {
		log.Warn("not a git repository; changed files cannot be discovered", "path", projectPath)
		return
	}
	if !repo.HasRevision(projectPath, base) {
		log.Warn("base reference not found", "base", base)
	}
}
