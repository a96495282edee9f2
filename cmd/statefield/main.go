package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/statefield/internal/automation"
	"github.com/san-kum/statefield/internal/config"
	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/engine"
	"github.com/san-kum/statefield/internal/export"
	"github.com/san-kum/statefield/internal/history"
	"github.com/san-kum/statefield/internal/mapping"
	"github.com/san-kum/statefield/internal/metrics"
	"github.com/san-kum/statefield/internal/viz"
)

var (
	configFile string
	dataDir    string
	policyName string
	backend    string
	verbose    bool
	// record
	preset   string
	fromLast bool
	// history
	limit int
	// sweep
	sweepBase string
)

var errNoState = errors.New("no state recorded yet, use `statefield record` or `statefield board`")

func main() {
	_ = godotenv.Load(".env")

	rootCmd := &cobra.Command{
		Use:           "statefield",
		Short:         "map a twelve-axis personal state onto field parameters",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBoard,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "statefield.yaml", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory")
	rootCmd.PersistentFlags().StringVar(&policyName, "policy", "", "mapping policy (weighted, jitter)")
	rootCmd.PersistentFlags().StringVar(&backend, "store", "", "history backend (file, sqlite, memory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	recordCmd := &cobra.Command{
		Use:   "record [Key=value...]",
		Short: "record a state and print its parameters",
		RunE:  recordState,
	}
	recordCmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	recordCmd.Flags().BoolVar(&fromLast, "from-last", false, "start from the last recorded state")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "show parameters for the current state",
		RunE:  showParams,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "interpret the current state",
		RunE:  analyzeState,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "list recorded samples",
		RunE:  listHistory,
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of samples to show (0 for all)")

	plotCmd := &cobra.Command{
		Use:   "plot [field]",
		Short: "plot a parameter over history",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotField,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "summarize history",
		RunE:  showStats,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [path]",
		Short: "write the analysis payload as json",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [path]",
		Short: "write the replayed timeline as csv",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list state presets",
		RunE:  listPresets,
	}

	policiesCmd := &cobra.Command{
		Use:   "policies",
		Short: "list mapping policies",
		RunE:  listPolicies,
	}

	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "interactive slider board",
		RunE:  runBoard,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a yaml scenario without touching history",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [dimension]",
		Short: "map one axis across 0..5",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepBase, "preset", "baseline", "base state preset")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "clear recorded history",
		RunE:  resetHistory,
	}

	rootCmd.AddCommand(recordCmd, paramsCmd, analyzeCmd, historyCmd, plotCmd, statsCmd,
		exportJSONCmd, exportCSVCmd, presetsCmd, policiesCmd, boardCmd, scenarioCmd, sweepCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is everything a command needs, built from config, environment and
// flags in that order of precedence.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   history.Store
	session *engine.Session
}

func setup() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if policyName != "" {
		cfg.Policy = policyName
	}
	if backend != "" {
		cfg.Store.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store, err := history.Open(cfg.Store.Backend, cfg.StorePath(), cfg.RetentionCap, logger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	policy, err := cfg.ResolvePolicy()
	if err != nil {
		store.Close()
		return nil, err
	}

	logger.Debug("session ready", "policy", policy.Name(), "store", cfg.Store.Backend, "path", cfg.StorePath())

	session := engine.NewSession(store, policy,
		engine.WithWindow(cfg.Window()),
		engine.WithLogger(logger),
		engine.WithClampDiffusion(cfg.ClampDiffusion),
	)
	return &app{cfg: cfg, logger: logger, store: store, session: session}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close history", "error", err)
	}
}

func (a *app) timeline() []engine.Point {
	return engine.Timeline(a.session.History(), a.session.Policy(), a.cfg.Window(), a.cfg.ClampDiffusion)
}

func printSnapshot(snap engine.Snapshot) {
	fmt.Println(viz.Feedback(snap.Record))
	fmt.Println(viz.EquationLabel(snap.Record))
	fmt.Println()
	for _, line := range snap.Verdict.Sentences() {
		fmt.Println("  " + line)
	}
}

func recordState(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	base := dimension.New(3)
	switch {
	case preset != "":
		base = config.GetPreset(preset)
		if base == nil {
			return fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	case fromLast:
		if snap, ok := a.session.Restore(); ok {
			base = snap.Sample.State
		}
	}

	state, err := dimension.Parse(base, args...)
	if err != nil {
		return err
	}

	snap, err := a.session.Update(state)
	if err != nil {
		return fmt.Errorf("record state: %w", err)
	}

	fmt.Printf("recorded: %s\n\n", snap.Sample.State)
	printSnapshot(snap)
	return nil
}

func showParams(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, ok := a.session.Restore()
	if !ok {
		return errNoState
	}

	values := snap.Record.Values()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "policy\t%s\n", snap.Record.Policy)
	for _, field := range mapping.Fields {
		fmt.Fprintf(w, "%s\t%.4f\n", field, values[field])
	}
	fmt.Fprintf(w, "coherence %%\t%d\n", snap.Record.CoherencePercent)
	fmt.Fprintf(w, "tension %%\t%d\n", snap.Record.TensionPercent)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.EquationLabel(snap.Record))
	return nil
}

func analyzeState(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, ok := a.session.Restore()
	if !ok {
		return errNoState
	}

	fmt.Printf("state: %s\n\n", snap.Sample.State)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tLEVEL\tVALUE")
	for _, f := range snap.Verdict.Findings {
		fmt.Fprintf(w, "%s\t%s\t%.3f\n", f.Axis, f.Level, f.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(snap.Verdict.Text())
	return nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	samples := a.session.History()
	if len(samples) == 0 {
		fmt.Println("no samples recorded")
		return nil
	}

	start := 0
	if limit > 0 && len(samples) > limit {
		start = len(samples) - limit
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tRECORDED\tSUM\tSTATE")
	for i := len(samples) - 1; i >= start; i-- {
		s := samples[i]
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, humanize.Time(s.Time()), s.State.Sum(), s.State)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if start > 0 {
		fmt.Printf("\n%s samples in total, showing the newest %d\n", humanize.Comma(int64(len(samples))), limit)
	}
	return nil
}

func plotField(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	field := "coherence"
	if len(args) > 0 {
		field = args[0]
	}

	graph, err := viz.PlotTimeline(a.timeline(), field)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	points := a.timeline()
	if len(points) == 0 {
		fmt.Println("no samples recorded")
		return nil
	}

	summary := metrics.Summarize(points, metrics.Default()...)
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", len(points))
	fmt.Fprintf(w, "policy\t%s\n", a.session.Policy().Name())
	fmt.Fprintf(w, "since\t%s\n", humanize.Time(points[0].Sample.Time()))
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", name, summary[name])
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, ok := a.session.Restore()
	if !ok {
		return errNoState
	}

	payload := export.NewPayload(snap, a.session.History())
	payload.Metrics = metrics.Summarize(a.timeline(), metrics.Default()...)

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if err := export.ExportJSON(path, payload); err != nil {
		return err
	}
	if path != "" && path != "-" {
		fmt.Printf("exported to %s\n", path)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if err := export.ExportCSV(path, a.timeline()); err != nil {
		return err
	}
	if path != "" && path != "-" {
		fmt.Printf("exported to %s\n", path)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOHERENCE\tTENSION\tD\tSTATE")
	for _, name := range config.ListPresets() {
		state := config.GetPreset(name)
		snap := engine.Compute(a.session.Policy(), state, nil, 0, a.cfg.Window())
		r := snap.Record
		fmt.Fprintf(w, "%s\t%d%%\t%d%%\t%.3f\t%s\n", name, r.CoherencePercent, r.TensionPercent, r.D, state)
	}
	return w.Flush()
}

func listPolicies(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	current := a.session.Policy().Name()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tHISTORY\tNOTE")
	for _, name := range mapping.NewRegistry().Names() {
		p, err := mapping.Lookup(name, a.cfg.Exponents)
		if err != nil {
			return err
		}
		var notes []string
		if name == mapping.DefaultPolicy {
			notes = append(notes, "default")
		}
		if name == current {
			notes = append(notes, "active")
		}
		fmt.Fprintf(w, "%s\t%v\t%s\n", name, p.UsesHistory(), strings.Join(notes, ", "))
	}
	return w.Flush()
}

func runBoard(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	board := viz.NewBoard(a.session, nil, a.cfg.Exponents)
	final, err := tea.NewProgram(board, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if b, ok := final.(viz.Board); ok {
		if snap, ok := a.session.Current(); ok {
			fmt.Println(viz.Feedback(snap.Record))
		}
		if err := b.Err(); err != nil {
			a.logger.Warn("board ended with an error", "error", err)
		}
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	// an explicit --policy wins over the scenario's own
	var policy mapping.Policy
	if policyName != "" || sc.Policy == "" {
		policy = a.session.Policy()
	}

	results, err := automation.RunScenario(context.Background(), sc, policy, a.cfg.Exponents,
		engine.WithWindow(a.cfg.Window()),
		engine.WithLogger(a.logger),
		engine.WithClampDiffusion(a.cfg.ClampDiffusion),
	)
	if err != nil {
		return err
	}

	if sc.Name != "" {
		fmt.Printf("%s: %s\n\n", sc.Name, sc.Description)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tAT\tCOHERENCE\tTENSION\tD\tLAMBDA\tMU\tNOTE")
	for _, r := range results {
		rec := r.Snapshot.Record
		fmt.Fprintf(w, "%d\t+%s\t%d%%\t%d%%\t%.3f\t%.3f\t%.3f\t%s\n",
			r.Step, r.Elapsed, rec.CoherencePercent, rec.TensionPercent, rec.D, rec.Lambda, rec.Mu, r.Note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) > 0 {
		fmt.Println()
		fmt.Println(results[len(results)-1].Snapshot.Verdict.Text())
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	d, ok := dimension.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown dimension: %s", args[0])
	}
	base := config.GetPreset(sweepBase)
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %s)", sweepBase, strings.Join(config.ListPresets(), ", "))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOHERENCE\tTENSION\tD\tLAMBDA\tMU\n", strings.ToUpper(d.Label))
	for _, r := range automation.RunSweep(base, d.Key, a.session.Policy()) {
		rec := r.Record
		fmt.Fprintf(w, "%d\t%d%%\t%d%%\t%.3f\t%.3f\t%.3f\n",
			r.Value, rec.CoherencePercent, rec.TensionPercent, rec.D, rec.Lambda, rec.Mu)
	}
	return w.Flush()
}

func resetHistory(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	r, ok := a.store.(history.Resetter)
	if !ok {
		return fmt.Errorf("%s backend cannot be reset", a.cfg.Store.Backend)
	}
	if err := r.Reset(); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	fmt.Println("history cleared")
	return nil
}
