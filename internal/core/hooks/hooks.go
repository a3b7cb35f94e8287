package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog"
)

// Artifact describes a freshly generated export
type Artifact struct {
	Variant  string
	Path     string // local filesystem path, empty for remote storage
	URL      string
	FileName string
}

// PostGenerate runs after an artifact has been stored
type PostGenerate interface {
	Name() string
	Run(ctx context.Context, a Artifact) error
}

// Chain runs hooks in order. Failures are logged and never reach the caller.
type Chain []PostGenerate

// Run executes every hook
func (c Chain) Run(ctx context.Context, a Artifact) {
	logger := zerolog.Ctx(ctx)
	for _, h := range c {
		if err := h.Run(ctx, a); err != nil {
			logger.Warn().Err(err).
				Str("hook", h.Name()).
				Str("file", a.FileName).
				Msg("post-generate hook failed")
		}
	}
}

// DesktopOpener opens the artifact with the desktop's default application.
// Only useful when the API runs on a workstation.
type DesktopOpener struct {
	goos string
	run  func(ctx context.Context, name string, args ...string) error
}

// NewDesktopOpener creates an opener for the current platform
func NewDesktopOpener() *DesktopOpener {
	return &DesktopOpener{
		goos: runtime.GOOS,
		// detached from the request so the viewer outlives it
		run: func(_ context.Context, name string, args ...string) error {
			return startDetached(exec.Command(name, args...), nil)
		},
	}
}

// startDetached starts cmd and reaps it in the background. done, when set,
// receives the exit error.
func startDetached(cmd *exec.Cmd, done func(error)) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		err := cmd.Wait()
		if done != nil {
			done(err)
		}
	}()
	return nil
}

// Name returns the hook name used in logs
func (o *DesktopOpener) Name() string {
	return "desktop-open"
}

// Run launches the platform opener for local artifacts
func (o *DesktopOpener) Run(ctx context.Context, a Artifact) error {
	if a.Path == "" {
		return nil
	}
	if _, err := os.Stat(a.Path); err != nil {
		return fmt.Errorf("artifact not on local disk: %w", err)
	}

	name, args := o.command(a.Path)
	if err := o.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (o *DesktopOpener) command(path string) (string, []string) {
	switch o.goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// FromConfig returns the hooks enabled by configuration
func FromConfig(openExports bool) Chain {
	var chain Chain
	if openExports {
		chain = append(chain, NewDesktopOpener())
	}
	return chain
}
