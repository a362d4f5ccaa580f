// cmd/readiness/score.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/app"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/planner"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/report"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/session"
)

// profileFile mirrors the four survey pages so a file goes through the same
// range checks as the HTTP wizard.
type profileFile struct {
	session.ProfileInput
	Scores     session.ScoresInput     `json:"scores"`
	Psychology session.PsychologyInput `json:"psychology"`
	Behavior   session.BehaviorInput   `json:"behavior"`
}

// scoreOutput is the --json document.
type scoreOutput struct {
	Result *models.ScoringResult `json:"result"`
	Plan   []models.WeekPlan     `json:"plan"`
}

type scoreOptions struct {
	profilePath string
	weeks       int
	reportPath  string
	asJSON      bool
	now         func() time.Time
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{now: time.Now}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a profile file and print the readiness summary",
		Long: "Reads a profile (JSON or YAML), computes the readiness result and the study plan, " +
			"and optionally writes the HTML report.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.profilePath, "profile", "p", "", "Path to the profile file (.json, .yaml)")
	cmd.Flags().IntVarP(&opts.weeks, "weeks", "w", planner.DefaultWeeks, "Study plan length in weeks")
	cmd.Flags().StringVarP(&opts.reportPath, "report", "r", "", "Write the HTML report to this path")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result and plan as JSON")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func runScore(cmd *cobra.Command, root *rootOptions, opts *scoreOptions) error {
	profile, err := loadProfile(opts.profilePath, opts.now())
	if err != nil {
		return err
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rt, err := app.Build(cmd.Context(), cfg, root.logger())
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.Engine.Compute(profile)
	if err != nil {
		return err
	}
	plan, err := planner.GeneratePlan(result, opts.weeks)
	if err != nil {
		return err
	}

	if opts.reportPath != "" {
		if err := writeReport(opts.reportPath, result, plan, opts.now()); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(scoreOutput{Result: result, Plan: plan})
	}
	printSummary(out, result, plan)
	if opts.reportPath != "" {
		fmt.Fprintf(out, "\nReport written to %s\n", opts.reportPath)
	}
	return nil
}

// loadProfile decodes path and replays it through the survey wizard.
func loadProfile(path string, now time.Time) (models.StudentProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.StudentProfile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var in profileFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return models.StudentProfile{}, fmt.Errorf("failed to parse YAML profile: %w", err)
		}
		if data, err = json.Marshal(raw); err != nil {
			return models.StudentProfile{}, fmt.Errorf("failed to normalize YAML profile: %w", err)
		}
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return models.StudentProfile{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	w := session.NewWizard("cli", now)
	if w, err = w.SubmitProfile(in.ProfileInput, now); err != nil {
		return models.StudentProfile{}, err
	}
	if w, err = w.SubmitScores(in.Scores, now); err != nil {
		return models.StudentProfile{}, err
	}
	if w, err = w.SubmitPsychology(in.Psychology, now); err != nil {
		return models.StudentProfile{}, err
	}
	if w, err = w.SubmitBehavior(in.Behavior, now); err != nil {
		return models.StudentProfile{}, err
	}
	return w.Profile()
}

func writeReport(path string, result *models.ScoringResult, plan []models.WeekPlan, at time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := report.Render(f, result, plan, at); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(out io.Writer, result *models.ScoringResult, plan []models.WeekPlan) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	p := result.Profile
	fmt.Fprintf(tw, "Student\t%s\n", p.Name)
	fmt.Fprintf(tw, "Target\t%s @ %s\n", p.Major, p.Institution)
	fmt.Fprintf(tw, "Composite\t%.1f (mean %.1f)\n", result.Composite, result.Mean)
	fmt.Fprintf(tw, "Band\t%s %.0f-%.0f\n", result.Band.Label, result.Band.Min, result.Band.Max)
	fmt.Fprintf(tw, "Probability\t%s (%.0f%%)\n", result.Probability.Label, result.Probability.Percentage)
	fmt.Fprintf(tw, "Gap\t%+.1f\n", result.Gap)
	fmt.Fprintf(tw, "Indices\tpsychological %.1f, consistency %.1f, stability %.1f\n",
		result.Indices.Psychological, result.Indices.Consistency, result.Indices.Stability)
	fmt.Fprintf(tw, "Risk\t%s\n", result.Risk.Level)
	fmt.Fprintf(tw, "Strategy\t%s\n", strategyLine(result.Strategy))
	if len(result.Alternatives) > 0 {
		fmt.Fprintf(tw, "Alternatives\t%s\n", strings.Join(result.Alternatives, ", "))
	}
	tw.Flush()

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBTEST\tSCORE\tWEIGHT\tPOINTS")
	for _, c := range result.Contributions {
		fmt.Fprintf(tw, "%s\t%d\t%.0f%%\t%.1f\n", c.Subtest, c.Score, c.Weight*100, c.Points)
	}
	tw.Flush()

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WEEK\tPHASE\tTARGET\tDAILY\tFOCUS")
	for _, wk := range plan {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\t%s\n", wk.Week, wk.Phase, wk.TargetScore, wk.DailyStudy, wk.Focus)
	}
	tw.Flush()
}

func strategyLine(v *models.StrategyVerdict) string {
	switch {
	case v == nil:
		return "not configured"
	case v.OK() && v.Confidence != nil:
		return fmt.Sprintf("%s (%.0f%%)", v.Label, *v.Confidence)
	case v.OK():
		return v.Label
	default:
		return v.Status
	}
}
