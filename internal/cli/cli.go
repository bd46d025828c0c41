package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/powerof10"
	"github.com/pfrederiksen/powerof10/internal/capture"
	"github.com/pfrederiksen/powerof10/internal/config"
	"github.com/pfrederiksen/powerof10/internal/logger"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitBroadQuery = 4
)

// app holds what every subcommand shares once flags and config are resolved.
type app struct {
	stdout io.Writer
	stderr io.Writer

	flagConfig  string
	flagBaseURL string
	flagFormat  string
	flagDumpDir string
	flagTimeout time.Duration
	flagVerbose bool

	cfg     config.Config
	format  OutputFormat
	log     *logger.Logger
	client  *powerof10.Client
	capture *capture.Capture
}

// NewRootCmd creates the root command writing to stdout and stderr.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{stdout: os.Stdout, stderr: os.Stderr})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "po10",
		Short: "Query athletes, coaches, rankings and results on thepowerof10.info",
		Long: `A CLI for the UK athletics statistics site thepowerof10.info.
Searches athletes, coaches and meetings, and prints profiles, ranking lists
and meeting results as tables or JSON.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.flagVerbose {
				_ = writeMetrics(a.stderr, logger.MetricsSnapshot())
			}
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flagConfig, "config", "", "Config file (default po10.json5 in the working directory)")
	pf.StringVar(&a.flagBaseURL, "base-url", "", "Site base URL")
	pf.StringVar(&a.flagFormat, "format", "", "Output format: text or json")
	pf.StringVar(&a.flagDumpDir, "dump-dir", "", "Save every fetched page to this directory")
	pf.DurationVar(&a.flagTimeout, "timeout", 0, "Request timeout, e.g. 30s")
	pf.BoolVar(&a.flagVerbose, "verbose", false, "Enable debug logging and print request metrics")

	cmd.AddCommand(
		newAthletesCmd(a),
		newAthleteCmd(a),
		newCoachesCmd(a),
		newRankingsCmd(a),
		newMeetingsCmd(a),
		newResultsCmd(a),
		newOptionsCmd(a),
	)
	return cmd
}

// setup resolves config then applies flags that were set explicitly.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = a.flagBaseURL
	}
	if flags.Changed("format") {
		cfg.Format = a.flagFormat
	}
	if flags.Changed("dump-dir") {
		cfg.DumpDir = a.flagDumpDir
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.flagTimeout.String()
	}
	if a.flagVerbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.format = OutputFormat(strings.ToLower(cfg.Format))

	level, _ := logger.ParseLevel(cfg.LogLevel)
	a.log = logger.New(level, a.stderr)
	logger.SetDefault(a.log)

	timeout, _ := cfg.TimeoutDuration()
	opts := []powerof10.Option{
		powerof10.WithBaseURL(cfg.BaseURL),
		powerof10.WithUserAgent(cfg.UserAgent),
		powerof10.WithTimeout(timeout),
		powerof10.WithLogger(a.log),
	}
	if cfg.DumpDir != "" {
		a.capture, err = capture.New(cfg.DumpDir)
		if err != nil {
			return fmt.Errorf("initializing page capture: %w", err)
		}
		opts = append(opts, powerof10.WithCapture(a.capture))
	}
	a.client = powerof10.New(opts...)

	logger.Debug("configured", logger.Fields{
		"base_url": cfg.BaseURL,
		"timeout":  cfg.Timeout,
		"format":   cfg.Format,
		"dump_dir": cfg.DumpDir,
	})
	return nil
}

func (a *app) write(v any) error {
	if err := WriteOutput(a.stdout, v, a.format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newAthletesCmd(a *app) *cobra.Command {
	var q powerof10.AthleteQuery
	cmd := &cobra.Command{
		Use:   "athletes",
		Short: "Search athletes by name or club",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			athletes, err := a.client.SearchAthletes(cmd.Context(), q)
			if err != nil {
				return err
			}
			return a.write(athletes)
		},
	}
	cmd.Flags().StringVar(&q.Firstname, "firstname", "", "First name")
	cmd.Flags().StringVar(&q.Surname, "surname", "", "Surname")
	cmd.Flags().StringVar(&q.Club, "club", "", "Club")
	return cmd
}

func newAthleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "athlete <athlete-id>",
		Short: "Show an athlete profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.client.GetAthlete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, section := range profile.Degraded {
				logger.Warn("profile section unavailable", logger.Fields{"section": section})
			}
			return a.write(profile)
		},
	}
}

func newCoachesCmd(a *app) *cobra.Command {
	var q powerof10.CoachQuery
	cmd := &cobra.Command{
		Use:   "coaches",
		Short: "Search coaches by name or club",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.SearchCoaches(cmd.Context(), q)
			if err != nil {
				return err
			}
			return a.write(res)
		},
	}
	cmd.Flags().StringVar(&q.Firstname, "firstname", "", "First name")
	cmd.Flags().StringVar(&q.Surname, "surname", "", "Surname")
	cmd.Flags().StringVar(&q.Club, "club", "", "Club")
	return cmd
}

func newRankingsCmd(a *app) *cobra.Command {
	var q powerof10.RankingQuery
	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Show a ranking list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.client.GetRankings(cmd.Context(), q)
			if err != nil {
				return err
			}
			return a.write(entries)
		},
	}
	cmd.Flags().StringVar(&q.Year, "year", "", "Year, e.g. 2022 (required)")
	cmd.Flags().StringVar(&q.Gender, "gender", "", "M or W (required)")
	cmd.Flags().StringVar(&q.AgeGroup, "age-group", "", "Age group, e.g. U20 or ALL (required)")
	cmd.Flags().StringVar(&q.Event, "event", "", "Event, e.g. 400 or 10K (required)")
	cmd.Flags().StringVar(&q.Region, "region", "", "Region name, see 'po10 options'")
	return cmd
}

func newMeetingsCmd(a *app) *cobra.Command {
	var (
		q           powerof10.MeetingQuery
		meetingType string
		terrain     string
		sortBy      string
		icsPath     string
	)
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "Search meetings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.MeetingType = powerof10.MeetingType(meetingType)
			q.Terrain = powerof10.Terrain(terrain)

			order := SortOrder(strings.ToLower(sortBy))
			if sortBy != "" && order != SortByDate && order != SortByMeeting && order != SortByVenue {
				return fmt.Errorf("invalid sort: %s (must be 'date', 'meeting' or 'venue')", sortBy)
			}

			meetings, err := a.client.SearchMeetings(cmd.Context(), q)
			if err != nil {
				return err
			}
			sortMeetings(meetings, order)

			if icsPath != "" {
				if err := a.exportICS(meetings, icsPath); err != nil {
					return err
				}
			}
			return a.write(meetings)
		},
	}
	f := cmd.Flags()
	f.StringVar(&q.Event, "event", "", "Event")
	f.StringVar(&q.Meeting, "meeting", "", "Meeting title")
	f.StringVar(&q.Venue, "venue", "", "Venue")
	f.StringVar(&q.DateFrom, "date-from", "", "Earliest date, e.g. 1-Jan-2016")
	f.StringVar(&q.DateTo, "date-to", "", "Latest date, e.g. 31-Dec-2016")
	f.StringVar(&q.Year, "year", "", "Year")
	f.StringVar(&meetingType, "type", "", "Meeting type, see 'po10 options'")
	f.StringVar(&terrain, "terrain", "", "Terrain, see 'po10 options'")
	f.StringVar(&sortBy, "sort", "", "Sort by date, meeting or venue (default: site order)")
	f.StringVar(&icsPath, "ics", "", "Also write the meetings to this .ics file")
	return cmd
}

func newResultsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "results <meeting-id>",
		Short: "Show the results of a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.GetMeetingResults(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.write(res)
		},
	}
}

// Options lists the accepted enumerated filter values.
type Options struct {
	Regions      []string                `json:"regions"`
	MeetingTypes []powerof10.MeetingType `json:"meeting_types"`
	Terrains     []powerof10.Terrain     `json:"terrains"`
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List accepted regions, meeting types and terrains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.write(Options{
				Regions:      powerof10.Regions(),
				MeetingTypes: powerof10.MeetingTypes(),
				Terrains:     powerof10.Terrains(),
			})
		},
	}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, powerof10.ErrValidation):
		return ExitValidation
	case errors.Is(err, powerof10.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, powerof10.ErrBroadQuery):
		return ExitBroadQuery
	default:
		return ExitError
	}
}

// Run executes the CLI with args and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(&app{stdout: stdout, stderr: stderr})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
