package utils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/apex/log"
)

// Runner runs external tools.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs tools with os/exec.
type ExecRunner struct{}

// Run executes name in dir and returns its combined output.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log.WithField("cmd", strings.Join(append([]string{name}, args...), " ")).Debug("Running")
	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("%s failed: %v: %s", name, err, strings.TrimSpace(out.String()))
	}

	return out.String(), nil
}
