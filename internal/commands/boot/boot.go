// Package boot contains the root boot image pipeline.
package boot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/download"
	"github.com/blacktop/ltbox/internal/kernel"
	"github.com/blacktop/ltbox/internal/utils"
	"github.com/spf13/afero"
)

const (
	// Output is the name of the rooted image written to OutputDir.
	Output = "boot.root.img"

	bootImage  = "boot.img"
	kernelFile = "kernel"
	newBoot    = "new-boot.img"
)

// ErrNoKernelURL is returned when no GKI kernel URL template is configured.
var ErrNoKernelURL = errors.New("boot.kernel-url is not configured")

// Config is the root boot command configuration.
type Config struct {
	// file system the work/output directories live on
	Fs afero.Fs `json:"-"`
	// executes magiskboot inside the workspace
	Runner utils.Runner `json:"-"`
	// downloads the GKI kernel
	Fetcher download.Fetcher `json:"-"`
	// path to the magiskboot binary
	Magiskboot string `json:"magiskboot,omitempty"`
	// GKI kernel URL template, e.g. https://host/{{.Version}}/Image
	KernelURL string `json:"kernel_url,omitempty"`
	// temporary folder removed when Root returns
	WorkDir string `json:"work_dir,omitempty"`
	// folder boot.root.img is written to
	OutputDir string `json:"output_dir,omitempty"`
}

func (c *Config) magiskboot(ctx context.Context, args ...string) error {
	out, err := c.Runner.Run(ctx, c.WorkDir, c.Magiskboot, args...)
	if err != nil {
		return fmt.Errorf("magiskboot %s failed: %v", args[0], err)
	}
	if out != "" {
		log.Debug(out)
	}
	return nil
}

// Root swaps the kernel of bootImg for the matching GKI kernel and returns
// the path of the repacked image.
func Root(ctx context.Context, cfg *Config, bootImg string) (string, error) {
	if cfg.KernelURL == "" {
		return "", ErrNoKernelURL
	}

	out := filepath.Join(cfg.OutputDir, Output)

	err := utils.Workspace(cfg.Fs, cfg.WorkDir, func(dir string) error {
		if err := utils.CopyFile(cfg.Fs, bootImg, filepath.Join(dir, bootImage)); err != nil {
			return err
		}

		log.Info("[1/5] Unpacking boot image")
		if err := cfg.magiskboot(ctx, "unpack", bootImage); err != nil {
			return err
		}
		kpath := filepath.Join(dir, kernelFile)
		if !utils.Exists(cfg.Fs, kpath) {
			return fmt.Errorf("failed to unpack %s: no kernel found (the image might be invalid)", filepath.Base(bootImg))
		}

		log.Info("[2/5] Verifying kernel version")
		data, err := afero.ReadFile(cfg.Fs, kpath)
		if err != nil {
			return err
		}
		info, err := kernel.Parse(data)
		if err != nil {
			return err
		}
		utils.Indent(log.Info, 2)(fmt.Sprintf("Full kernel string found: %s", info.Banner))
		utils.Indent(log.Info, 2)(fmt.Sprintf("Target kernel version: %s", info.Version))

		log.Info("[3/5] Downloading GKI kernel")
		url, err := download.ExpandURL(cfg.KernelURL, info.Version.Original())
		if err != nil {
			return err
		}
		image, err := cfg.Fetcher.Fetch(ctx, url, dir)
		if err != nil {
			return err
		}

		log.Info("[4/5] Replacing original kernel")
		if err := utils.MoveFile(cfg.Fs, image, kpath); err != nil {
			return err
		}

		log.Info("[5/5] Repacking boot image")
		if err := cfg.magiskboot(ctx, "repack", bootImage); err != nil {
			return err
		}
		repacked := filepath.Join(dir, newBoot)
		if !utils.Exists(cfg.Fs, repacked) {
			return fmt.Errorf("failed to repack %s", bootImage)
		}
		if err := cfg.Fs.MkdirAll(cfg.OutputDir, 0o750); err != nil {
			return err
		}
		return utils.MoveFile(cfg.Fs, repacked, out)
	})
	if err != nil {
		return "", err
	}

	return out, nil
}
