package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"springnorm/internal/config"
	"springnorm/internal/export"
	"springnorm/internal/generate"
	"springnorm/internal/history"
	"springnorm/internal/logging"
	"springnorm/internal/sequence"
	"springnorm/internal/specs"
)

var (
	// Global flags
	verbose   bool
	workspace string
	timeout   time.Duration

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "springnorm",
	Short: "springnorm - spring test sequence normalization",
	Long: `springnorm converts LLM output into canonical spring test sequences.

Raw model text is detected (markers, JSON, bracket notation), tokenized,
and reconciled into the fixed 7-column schema the test bench consumes.
Specification fields are resolved from inconsistently keyed parameter
bags, and advisory machine speeds are derived from spring geometry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			if workspace, err = os.Getwd(); err != nil {
				return err
			}
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("category logging disabled", zap.Error(err))
		}

		cfg, err = config.Load(config.Path(workspace))
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var normalizeJSON bool

// normalizeCmd parses raw model text from a file or stdin.
var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Parse raw model output into a canonical sequence",
	Long: `Reads raw model output from a file (or stdin when omitted) and prints
the detected sequence. Malformed input is never an error: text that cannot
be decoded as sequence data comes back as chat text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(args)
		if err != nil {
			return err
		}

		block := sequence.Dispatch(sequence.SanitizeResponse(string(raw)))
		logger.Debug("dispatched", zap.String("id", block.ID), zap.Int("rows", len(block.Rows)))

		if normalizeJSON {
			return printJSON(block)
		}
		if block.ChatText != "" {
			fmt.Println(block.ChatText)
			fmt.Println()
		}
		printRows(block.Rows)
		return nil
	},
}

var resolveTrace bool

// resolveCmd resolves specification display fields from a JSON parameter bag.
var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve specification fields from a parameter bag",
	Long: `Reads a JSON parameter bag from a file (or stdin when omitted) and
prints the resolved specification fields. Unresolvable fields print empty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(args)
		if err != nil {
			return err
		}

		var bag specs.Bag
		if err := json.Unmarshal(raw, &bag); err != nil {
			return fmt.Errorf("input is not a JSON object: %w", err)
		}

		resolved, trace := specs.Resolve(bag)
		for _, f := range specs.Fields {
			fmt.Printf("%-13s %s\n", string(f)+":", resolved.Field(f))
		}
		if resolveTrace {
			fmt.Println()
			for _, f := range specs.Fields {
				if src, ok := trace[f]; ok {
					fmt.Printf("%-13s %s\n", string(f)+":", src)
				}
			}
		}
		return nil
	},
}

var geometry generate.SpringSpecification

// speedsCmd prints advisory machine speeds for a spring geometry.
var speedsCmd = &cobra.Command{
	Use:   "speeds",
	Short: "Compute advisory machine speeds from spring geometry",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := specs.OptimalSpeeds(geometry.Geometry())
		fmt.Printf("threshold_speed: %d rpm\n", s.ThresholdSpeed)
		fmt.Printf("movement_speed:  %d rpm\n", s.MovementSpeed)
		fmt.Printf("contact_force:   %d N\n", s.ContactForce)
		return nil
	},
}

var (
	specFile     string
	generateSave bool
)

// generateCmd prompts the configured provider and prints the parsed result.
var generateCmd = &cobra.Command{
	Use:   "generate [request]",
	Short: "Generate a test sequence via the configured LLM provider",
	Long: `Sends the request to the configured provider with the spring
specification (from --spec) as context, parses the response, and prints
the sequence. With --save, the parsed sequence and both chat turns are
persisted to the history store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var spec generate.SpringSpecification
		if specFile != "" {
			data, err := os.ReadFile(specFile)
			if err != nil {
				return err
			}
			if err := yaml.Unmarshal(data, &spec); err != nil {
				return fmt.Errorf("failed to parse spec file: %w", err)
			}
		}

		provider, err := generate.NewProvider(cfg)
		if err != nil {
			return err
		}
		gen := generate.NewGenerator(provider, spec)

		request := strings.Join(args, " ")
		logger.Info("generating sequence", zap.String("provider", cfg.LLM.Provider))

		res := <-gen.GenerateAsync(ctx, request)
		if res.Err != nil {
			return res.Err
		}

		if res.Block.ChatText != "" {
			fmt.Println(res.Block.ChatText)
			fmt.Println()
		}
		printRows(res.Block.Rows)
		fmt.Printf("\nadvisory speeds: threshold %d rpm, movement %d rpm, contact %d N\n",
			res.Speeds.ThresholdSpeed, res.Speeds.MovementSpeed, res.Speeds.ContactForce)

		if generateSave {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			resolved, _ := specs.Resolve(specs.Bag{"prompt": spec.PromptText()})
			if err := store.AddMessage("user", request); err != nil {
				return err
			}
			if err := store.AddMessage("assistant", res.Block.ChatText); err != nil {
				return err
			}
			if err := store.SaveSequence(res.Block, resolved); err != nil {
				return err
			}
			fmt.Printf("saved sequence %s\n", res.Block.ID)
		}
		return nil
	},
}

var (
	exportFormat string
	exportDir    string
)

// exportCmd writes a stored sequence to a bench file.
var exportCmd = &cobra.Command{
	Use:   "export [sequence-id]",
	Short: "Export a stored sequence to txt, csv, or json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		seq, err := store.GetSequence(args[0])
		if err != nil {
			return err
		}

		dir := exportDir
		if dir == "" {
			dir = filepath.Join(workspace, cfg.Export.OutputDirectory)
		}
		format := export.Format(exportFormat)
		if exportFormat == "" {
			format = export.Format(cfg.Export.DefaultFormat)
		}

		resolved := specs.ResolvedSpec{PartName: seq.PartName, PartNumber: seq.PartNumber}
		path, err := export.Write(format, dir, seq.Rows, resolved)
		if err != nil {
			return err
		}
		fmt.Printf("exported %d rows to %s\n", len(seq.Rows), path)
		return nil
	},
}

// historyCmd groups history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear stored chat and sequence history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent stored sequences",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		seqs, err := store.RecentSequences(20)
		if err != nil {
			return err
		}
		if len(seqs) == 0 {
			fmt.Println("no stored sequences")
			return nil
		}
		for _, s := range seqs {
			name := s.PartName
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("%s  %s  %-20s %d rows\n",
				s.ID, s.CreatedAt.Format("2006-01-02 15:04"), name, len(s.Rows))
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored chat history",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.ClearMessages()
	},
}

func openStore() (*history.Store, error) {
	path := cfg.History.DatabasePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspace, path)
	}
	return history.New(path, cfg.History.MaxMessages)
}

// readInput reads the single file argument, or stdin when absent.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func printRows(rows []sequence.CommandRow) {
	if len(rows) == 0 {
		fmt.Println("(no sequence rows)")
		return
	}
	fmt.Printf("%-5s %-8s %-32s %-10s %-5s %-20s %s\n",
		sequence.Columns[0], sequence.Columns[1], sequence.Columns[2],
		sequence.Columns[3], sequence.Columns[4], sequence.Columns[5], sequence.Columns[6])
	for _, r := range rows {
		fmt.Printf("%-5s %-8s %-32s %-10s %-5s %-20s %s\n",
			r.Row, r.CMD, r.Description, r.Condition, r.Unit, r.Tolerance, r.SpeedRPM)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	normalizeCmd.Flags().BoolVar(&normalizeJSON, "json", false, "Print the parsed block as JSON")
	resolveCmd.Flags().BoolVar(&resolveTrace, "trace", false, "Show which lookup produced each field")

	speedsCmd.Flags().Float64Var(&geometry.WireDiaMM, "wire-dia", 0, "Wire diameter (mm)")
	speedsCmd.Flags().Float64Var(&geometry.OuterDiaMM, "outer-dia", 0, "Outer diameter (mm)")
	speedsCmd.Flags().Float64Var(&geometry.FreeLengthMM, "free-length", 0, "Free length (mm)")
	speedsCmd.Flags().Float64Var(&geometry.CoilCount, "coils", 0, "Coil count")
	speedsCmd.Flags().Float64Var(&geometry.SafetyLimitN, "safety-limit", 0, "Safety limit (N)")

	generateCmd.Flags().StringVar(&specFile, "spec", "", "YAML spring specification file")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "Persist the result to history")

	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Export format: txt, csv, json (default from config)")
	exportCmd.Flags().StringVar(&exportDir, "out", "", "Output directory (default from config)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(speedsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
