// Package toolchain installs target-specific toolchains via rustup.
package toolchain

import (
	"context"
	"io"

	"go.lanes.dev/lanes/internal/core/domain"
	"go.lanes.dev/lanes/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultBinary is the toolchain manager invoked by the installer.
const DefaultBinary = "rustup"

// RustupInstaller implements ports.ToolchainInstaller by shelling out to
// rustup through the executor port. The installer exposes success or
// failure only; everything else about the toolchain is opaque.
type RustupInstaller struct {
	executor ports.Executor
	binary   string
}

// NewRustupInstaller creates an installer backed by the given executor.
func NewRustupInstaller(executor ports.Executor) *RustupInstaller {
	return &RustupInstaller{
		executor: executor,
		binary:   DefaultBinary,
	}
}

// Install installs the toolchain channel with the requested profile, target
// and components. A non-zero rustup exit is fatal to the lane.
func (i *RustupInstaller) Install(ctx context.Context, tc domain.Toolchain, stdout, stderr io.Writer) error {
	argv := []string{i.binary, "toolchain", "install", tc.Channel}
	if tc.Profile != "" {
		argv = append(argv, "--profile", tc.Profile)
	}
	if tc.Target != "" {
		argv = append(argv, "--target", tc.Target)
	}
	for _, component := range tc.Components {
		argv = append(argv, "--component", component)
	}

	code, err := i.executor.Execute(ctx, &domain.Command{Argv: argv}, stdout, stderr)
	if err != nil {
		return zerr.Wrap(err, domain.ErrToolchainInstallFailed.Error())
	}
	if code != 0 {
		return zerr.With(
			zerr.With(
				zerr.With(domain.ErrToolchainInstallFailed, "channel", tc.Channel),
				"target", tc.Target,
			),
			"exit_code", code,
		)
	}

	return nil
}

var _ ports.ToolchainInstaller = (*RustupInstaller)(nil)
