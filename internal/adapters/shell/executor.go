// Package shell provides a PTY-based executor for running step commands.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/creack/pty"
	"go.lanes.dev/lanes/internal/core/domain"
	"go.lanes.dev/lanes/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec and a PTY.
type Executor struct{}

// NewExecutor creates a new shell Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs the command under a PTY and waits for it to complete. The PTY
// merges stdout and stderr, so all captured output flows to the stdout
// writer; stderr is accepted for interface symmetry.
//
// The child process environment is built from an allow-listed slice of the
// system environment plus cmd.Env; the parent environment is never mutated.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, stdout, _ io.Writer) (int, error) {
	if len(cmd.Argv) == 0 {
		return 0, zerr.Wrap(domain.ErrEmptyCommand, domain.ErrCommandStartFailed.Error())
	}

	name := cmd.Argv[0]
	args := cmd.Argv[1:]

	env := resolveEnvironment(os.Environ(), cmd.Env)

	// Resolve the executable against the child PATH, not the parent's.
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	proc := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command
	if len(proc.Args) > 0 {
		proc.Args[0] = name
	}
	if cmd.Dir != "" {
		proc.Dir = cmd.Dir
	}
	proc.Env = env

	ptmx, err := pty.Start(proc)
	if err != nil {
		return -1, zerr.With(
			zerr.Wrap(err, domain.ErrCommandStartFailed.Error()),
			"command", name,
		)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// io.Copy returns on EIO once the child side of the PTY closes.
		_, _ = io.Copy(stdout, ptmx)
	}()

	waitErr := proc.Wait()
	<-ioDone

	if waitErr != nil {
		// A cancelled or expired context kills the child; the resulting
		// signal exit is an interruption, not the command's own status.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return -1, zerr.With(
				zerr.Wrap(ctxErr, "command interrupted"),
				"command", name,
			)
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, zerr.Wrap(waitErr, domain.ErrCommandStartFailed.Error())
	}

	return 0, nil
}

// allowListedEnvVars are the system environment variables inherited by step
// processes. Keeping the set small makes runs hermetic while basic tools
// still function.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

// resolveEnvironment builds the child environment: allow-listed system
// variables first, then the command's merged environment on top.
func resolveEnvironment(sysEnv []string, cmdEnv map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}

	for k, v := range cmdEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

var _ ports.Executor = (*Executor)(nil)
