//go:build e2e

package e2e_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// binDir holds the directory containing the freshly built lanes binary.
// Scripts pick it up through PATH.
var binDir string

func TestMain(m *testing.M) {
	dir, err := buildBinary()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	binDir = dir

	code := m.Run()
	_ = os.RemoveAll(binDir)
	os.Exit(code)
}

// buildBinary compiles cmd/lanes into a temporary directory and returns that
// directory. The caller removes it after the run.
func buildBinary() (string, error) {
	dir, err := os.MkdirTemp("", "lanes-e2e-*")
	if err != nil {
		return "", err
	}

	build := exec.Command("go", "build", "-o", filepath.Join(dir, "lanes"), "./cmd/lanes")
	build.Dir = ".."
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("building lanes binary: %w", err)
	}
	return dir, nil
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			// Force linear output with stable, uncolored text so scripts
			// can match on it verbatim.
			env.Setenv("CI", "true")
			env.Setenv("NO_COLOR", "1")

			env.Setenv("PATH", binDir+string(os.PathListSeparator)+env.Getenv("PATH"))

			// Each script gets its own HOME so nothing leaks between runs
			// or from the host user.
			home := filepath.Join(env.WorkDir, ".home")
			if err := os.MkdirAll(home, 0o750); err != nil {
				return err
			}
			env.Setenv("HOME", home)
			return nil
		},
	})
}
