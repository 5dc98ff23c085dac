// Package player parses player command flags and runs the console
// blueprint player: validate a blueprint, replay a scripted action
// sequence against it, and report the resulting score.
package player

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/louisbranch/diagram.games/internal/analytics"
	"github.com/louisbranch/diagram.games/internal/blueprint"
	"github.com/louisbranch/diagram.games/internal/mechanics"
	entrypoint "github.com/louisbranch/diagram.games/internal/platform/cmd"
	"github.com/louisbranch/diagram.games/internal/session"
	"github.com/louisbranch/diagram.games/internal/storage/sqlite"
)

// Config holds player command configuration.
type Config struct {
	BlueprintPath string `env:"DIAGRAM_GAMES_BLUEPRINT"`
	ScriptPath    string `env:"DIAGRAM_GAMES_SCRIPT"`
	StoragePath   string `env:"DIAGRAM_GAMES_DB"`
	SessionID     string `env:"DIAGRAM_GAMES_SESSION_ID"`
	Validate      bool   `env:"DIAGRAM_GAMES_VALIDATE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.BlueprintPath, "blueprint", cfg.BlueprintPath, "Path to the blueprint JSON file")
	fs.StringVar(&cfg.ScriptPath, "script", cfg.ScriptPath, "Path to a JSON action script to replay")
	fs.StringVar(&cfg.StoragePath, "db", cfg.StoragePath, "SQLite file for snapshots and analytics (optional)")
	fs.StringVar(&cfg.SessionID, "session", cfg.SessionID, "Session id for snapshot resume (optional)")
	fs.BoolVar(&cfg.Validate, "validate", cfg.Validate, "Validate the blueprint and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the player command.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePlayer, func(ctx context.Context) error {
		return run(ctx, cfg, os.Stdout)
	})
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	if strings.TrimSpace(cfg.BlueprintPath) == "" {
		return fmt.Errorf("blueprint path is required")
	}

	file, err := os.Open(cfg.BlueprintPath)
	if err != nil {
		return fmt.Errorf("open blueprint: %w", err)
	}
	raw, err := blueprint.Decode(file)
	_ = file.Close()
	if err != nil {
		return err
	}

	logger := slog.Default()
	opts := []session.Option{
		session.WithLogger(logger),
	}
	sink := analytics.Sink(analytics.SlogSink{Logger: logger})

	if strings.TrimSpace(cfg.StoragePath) != "" {
		store, err := sqlite.Open(cfg.StoragePath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, session.WithStore(store))
		sink = analytics.MultiSink{sink, analytics.SinkFunc(store.AppendEvent)}
	}
	opts = append(opts, session.WithSink(sink))
	if strings.TrimSpace(cfg.SessionID) != "" {
		opts = append(opts, session.WithID(cfg.SessionID))
	}
	if cfg.ScriptPath != "" {
		// Scripted replays advance synchronously so the final score is
		// printed after the last action, not behind a pacing timer.
		opts = append(opts, session.WithAdvanceDelay(0))
	}

	sess, diags, err := session.New(raw, opts...)
	if err != nil {
		return err
	}
	defer sess.Close()

	for _, diag := range diags {
		logger.Warn("blueprint diagnostic",
			"level", string(diag.Level),
			"entity", diag.EntityID,
			"message", diag.Message,
		)
	}

	if cfg.Validate {
		fmt.Fprintf(out, "blueprint ok: %d diagnostics, max score %d\n", len(diags), sess.MaxScore())
		return nil
	}

	fmt.Fprintf(out, "session %s\n", sess.ID())
	fmt.Fprintf(out, "instructions: %s\n", sess.Instructions())

	if cfg.ScriptPath != "" {
		if err := replayScript(ctx, cfg.ScriptPath, sess, out); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "score %d / %d\n", sess.Score(), sess.MaxScore())
	if sess.IsComplete() {
		fmt.Fprintln(out, "game complete")
	} else if cfg.SessionID != "" && cfg.StoragePath != "" {
		if err := sess.Save(ctx); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Fprintln(out, "snapshot saved")
	}
	return nil
}

// replayScript dispatches each action from a JSON array file and prints
// the per-action outcome.
func replayScript(ctx context.Context, path string, sess *session.Session, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	var actions []mechanics.Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return fmt.Errorf("decode script: %w", err)
	}

	for i, action := range actions {
		result, err := sess.Dispatch(ctx, action)
		if err != nil {
			return fmt.Errorf("action %d (%s): %w", i+1, action.Verb, err)
		}
		if result == nil {
			fmt.Fprintf(out, "%3d %-18s ignored\n", i+1, action.Verb)
			continue
		}
		status := "incorrect"
		switch {
		case result.DistractorRejected:
			status = "distractor rejected"
		case result.Deferred:
			status = "deferred"
		case result.Correct:
			status = "correct"
		}
		fmt.Fprintf(out, "%3d %-18s %s", i+1, action.Verb, status)
		if result.ScoreDelta != 0 {
			fmt.Fprintf(out, " +%d", result.ScoreDelta)
		}
		if result.Feedback != "" {
			fmt.Fprintf(out, "  %s", result.Feedback)
		}
		fmt.Fprintln(out)
	}
	return nil
}
