package utils

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	"github.com/blacktop/ltbox/pkg/patch"
	"github.com/spf13/afero"
)

// PatchFile applies p to in and writes the result to out. The output is
// written even when nothing changed so later steps always find it.
func PatchFile(fs afero.Fs, in, out string, p *patch.Patch) (patch.Result, error) {
	data, err := afero.ReadFile(fs, in)
	if err != nil {
		return patch.Result{}, fmt.Errorf("failed to read %s: %v", in, err)
	}

	patched, res, err := patch.Apply(data, p)
	if err != nil {
		return res, fmt.Errorf("failed to apply %s patch to %s: %w", p.Name, filepath.Base(in), err)
	}

	if err := WriteFile(fs, out, patched); err != nil {
		return res, err
	}

	if res.Changed {
		for _, rule := range p.Rules {
			for _, op := range rule.Ops {
				if i := bytes.Index(data, op.Target); i >= 0 {
					log.WithField("pattern", HexPattern(op.Target)).Debugf("First match at %#x\n%s", i, HexContext(data, i, len(op.Target), 32))
				}
			}
		}
	}

	ctx := log.WithFields(log.Fields{
		"state": res.State,
		"count": res.Occurrences,
	})
	if res.Changed {
		Indent(ctx.Info, 2)(fmt.Sprintf("Patched %s -> %s: %s", filepath.Base(in), filepath.Base(out), res))
	} else {
		Indent(ctx.Warn, 2)(fmt.Sprintf("Copied %s -> %s unchanged: %s", filepath.Base(in), filepath.Base(out), res))
	}
	return res, nil
}
