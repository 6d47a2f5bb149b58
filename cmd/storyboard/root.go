package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aretw0/storyboard"
)

// cli holds the global flags and the logger shared by every subcommand.
type cli struct {
	boardDir   string
	configFile string
	verbose    bool
	logFile    string

	logger  *slog.Logger
	logSink io.Closer
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "storyboard",
		Short: "A note-card board for plotting stories",
		Long: `Storyboard keeps story note cards on an unbounded canvas.
Each card has a position, a title, up to ten bullet points and a category tag.
The board lives in a single JSON (or YAML) document next to storyboard.yaml.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogger(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logSink != nil {
				_ = c.logSink.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.boardDir, "board", "b", "", "Board root directory (default: nearest board above the working directory)")
	flags.StringVar(&c.configFile, "config", "", "Config file (default: storyboard.yaml or storyboard.toml in the board root)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&c.logFile, "log-file", "", "Write logs to a rotated file instead of stderr")

	rootCmd.AddCommand(
		newInitCmd(c),
		newAddCmd(c),
		newListCmd(c),
		newShowCmd(c),
		newEditCmd(c),
		newMoveCmd(c),
		newSnapCmd(c),
		newRenderCmd(c),
		newWatchCmd(c),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) setupLogger(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if path := c.resolveConfigFile(); path != "" {
		if cfg, err := storyboard.LoadConfig(path); err == nil {
			if l, err := cfg.Level(); err == nil {
				level = l
			}
		}
	}
	if c.verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = cmd.ErrOrStderr()
	if c.logFile != "" {
		sink := &lumberjack.Logger{
			Filename:   c.logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		c.logSink = sink
		out = sink
	}

	c.logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(c.logger)
	return nil
}

// root returns the board root: --board, else the nearest board above the
// working directory, else the working directory itself.
func (c *cli) root() (string, error) {
	if c.boardDir != "" {
		return c.boardDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if found, err := storyboard.FindBoardRoot(wd); err == nil {
		return found, nil
	}
	return wd, nil
}

func (c *cli) resolveConfigFile() string {
	if c.configFile != "" {
		return c.configFile
	}
	root, err := c.root()
	if err != nil {
		return ""
	}
	path, _ := storyboard.FindConfig(root)
	return path
}

func (c *cli) options(extra ...storyboard.Option) []storyboard.Option {
	opts := []storyboard.Option{storyboard.WithLogger(c.logger)}
	if c.configFile != "" {
		opts = append(opts, storyboard.WithConfigFile(c.configFile))
	}
	return append(opts, extra...)
}

// openBoard builds the service and loads the existing board document.
func (c *cli) openBoard(ctx context.Context, extra ...storyboard.Option) (*storyboard.Service, error) {
	root, err := c.root()
	if err != nil {
		return nil, err
	}
	svc, err := storyboard.New(root, c.options(extra...)...)
	if err != nil {
		return nil, err
	}
	if err := svc.Load(ctx); err != nil {
		if errors.Is(err, storyboard.ErrDocumentNotFound) {
			return nil, fmt.Errorf("no board in %s (run 'storyboard init'): %w", root, err)
		}
		return nil, err
	}
	return svc, nil
}

func parseNoteID(arg string) (storyboard.NoteID, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return storyboard.NoteID(id), nil
}
