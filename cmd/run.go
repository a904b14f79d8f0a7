package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/executor"
	"github.com/VoxDroid/cmdpal/internal/history"
	"github.com/VoxDroid/cmdpal/internal/registry"
	"github.com/VoxDroid/cmdpal/internal/security"
)

var runCmd = &cobra.Command{
	Use:   "run <group>/<name> | <name>",
	Short: "Run a workspace command in a terminal session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dry, _ := cmd.Flags().GetBool("dry-run")
		force, _ := cmd.Flags().GetBool("force")
		noPTY, _ := cmd.Flags().GetBool("no-pty")

		root, groups, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		rec, err := resolveRecord(groups, args[0])
		if err != nil {
			return err
		}
		text := rec.Kind.Wrap(rec.Command)

		// Security: check if command is allowed
		if err := security.CheckAllowed(text); err != nil && !force {
			return fmt.Errorf("refusing to run potentially dangerous command '%s': %v (use --force to override)", text, err)
		}
		if dry {
			fmt.Fprintf(cmd.OutOrStdout(), "-> %s\n", text)
			return nil
		}

		var hist *history.Store
		if conn, err := openDB(); err != nil {
			appLogger.Warn("run history unavailable", "err", err)
		} else {
			defer func() { _ = conn.Close() }()
			hist = history.New(conn, root)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if !noPTY {
			err = runInSession(ctx, cmd, root, rec, hist)
			if !errors.Is(err, executor.ErrPTYUnsupported) {
				return err
			}
			appLogger.Info("no pty on this platform; running once", "name", rec.Name)
		}
		return runOnce(ctx, cmd, root, rec, hist)
	},
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "Print the command instead of running it")
	runCmd.Flags().Bool("force", false, "Override safety checks and force execution")
	runCmd.Flags().Bool("no-pty", false, "Run once without a terminal session")
	rootCmd.AddCommand(runCmd)
}

// runInSession runs rec in a pty-backed session, forwards stdin to it and
// waits until the command finishes.
func runInSession(ctx context.Context, cmd *cobra.Command, root string, rec commands.Record, hist *history.Store) error {
	opts := executor.Options{Shell: appConfig.Shell, Output: cmd.OutOrStdout(), Logger: appLogger}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		opts.Rows, opts.Cols = uint16(h), uint16(w)
	}
	host := executor.NewPTYHost(opts)
	reg := registry.New(host, root, appLogger)
	defer reg.Close()

	if err := reg.RunCommand(rec); err != nil {
		return err
	}
	t, ok := reg.Lookup(rec.Name)
	if !ok {
		return fmt.Errorf("session for '%s' closed before it started", rec.Name)
	}
	pt := t.(*executor.PTYTerminal)

	var runID int64
	if hist != nil {
		var sessionID string
		for _, s := range reg.Sessions() {
			if s.Key == registry.SessionKey(rec.Name) {
				sessionID = s.ID
			}
		}
		if id, err := hist.Record(rec, sessionID); err != nil {
			appLogger.Warn("could not record run", "err", err)
		} else {
			runID = id
		}
	}

	if in, ok := cmd.InOrStdin().(*os.File); ok {
		defer executor.QuietInput(in)()
	}
	pt.Attach(cmd.InOrStdin())
	// the shell exits with the status of the command once it is done
	if err := pt.SendText("exit"); err != nil {
		return err
	}

	select {
	case <-pt.Done():
	case <-ctx.Done():
		reg.DisposeAll()
		return ctx.Err()
	}
	code := exitCode(pt.Err())
	if hist != nil && runID != 0 {
		if err := hist.Finish(runID, code); err != nil {
			appLogger.Warn("could not record exit code", "err", err)
		}
	}
	if code != 0 {
		return fmt.Errorf("'%s' exited with status %d", rec.Name, code)
	}
	return nil
}

// runOnce runs rec without a session.
func runOnce(ctx context.Context, cmd *cobra.Command, root string, rec commands.Record, hist *history.Store) error {
	var runID int64
	if hist != nil {
		if id, err := hist.Record(rec, ""); err == nil {
			runID = id
		}
	}
	r := &executor.Runner{
		Shell:  appConfig.Shell,
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	cwd := root
	if rec.Cwd != "" {
		cwd = filepath.Join(root, rec.Cwd)
	}
	err := r.Run(ctx, rec.Kind.Wrap(rec.Command), cwd)
	if hist != nil && runID != 0 {
		_ = hist.Finish(runID, exitCode(err))
	}
	return err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// resolveRecord finds "group/name" or a name that is unique across groups.
func resolveRecord(groups []commands.Group, ref string) (commands.Record, error) {
	if group, name, ok := strings.Cut(ref, "/"); ok {
		for _, g := range groups {
			if g.Name != group {
				continue
			}
			for _, r := range g.Commands {
				if r.Name == name {
					return r, nil
				}
			}
		}
	}
	var found []commands.Record
	for _, r := range commands.Flatten(groups) {
		if r.Name == ref {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return commands.Record{}, fmt.Errorf("command not found: %s", ref)
	case 1:
		return found[0], nil
	}
	var refs []string
	for _, r := range found {
		refs = append(refs, r.Group+"/"+r.Name)
	}
	return commands.Record{}, fmt.Errorf("'%s' is ambiguous: %s", ref, strings.Join(refs, ", "))
}
