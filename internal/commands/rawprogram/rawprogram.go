// Package rawprogram contains the partition table (rawprogram*.xml) commands.
package rawprogram

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/utils"
	"github.com/blacktop/ltbox/pkg/container"
	"github.com/blacktop/ltbox/pkg/rawprogram"
	perrors "github.com/pkg/errors"
	"github.com/spf13/afero"
)

var (
	// ErrNoFirmwareFiles is returned when the image folder holds no usable .x/.xml files.
	ErrNoFirmwareFiles = errors.New("no usable firmware files (.x or .xml)")
	// ErrMissingCriticalFile is returned when the wipe/no-wipe target and its fallback are both missing.
	ErrMissingCriticalFile = errors.New("critical partition table missing")
)

// Config is the rawprogram command configuration.
type Config struct {
	// file system the commands operate on
	Fs afero.Fs `json:"-"`
	// folder holding the unpacked firmware (.x/.xml and images)
	ImageDir string `json:"image_dir,omitempty"`
	// folder the processed partition tables are written to
	OutputDir string `json:"output_dir,omitempty"`
	// temporary folder removed when the command returns
	WorkDir string `json:"work_dir,omitempty"`
}

// Options controls Modify.
type Options struct {
	Mode rawprogram.Mode
	// don't derive the persist/devinfo write variants
	SkipWriteVariants bool
}

// Report summarizes a Modify run.
type Report struct {
	Decrypted []string
	Moved     []string
	Failed    []string
	Deleted   []string
	Variants  []string
}

func glob(fs afero.Fs, dir, pattern string) ([]string, error) {
	matches, err := afero.Glob(fs, filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)
	return matches, nil
}

func xmlName(x string) string {
	return strings.TrimSuffix(filepath.Base(x), filepath.Ext(x)) + ".xml"
}

// DecryptFile decrypts one container to out.
func DecryptFile(fs afero.Fs, in, out string) (int, error) {
	data, err := afero.ReadFile(fs, in)
	if err != nil {
		return 0, perrors.Wrapf(err, "failed to read %s", in)
	}
	body, err := container.Decrypt(data)
	if err != nil {
		return 0, perrors.Wrapf(err, "failed to decrypt %s", filepath.Base(in))
	}
	if err := utils.WriteFile(fs, out, body); err != nil {
		return 0, err
	}
	return len(body), nil
}

// DecryptAll decrypts every *.x container in ImageDir into OutputDir.
// Existing outputs are kept unless overwrite is set. Broken containers are
// logged and skipped; the returned slices hold the written and failed inputs.
func DecryptAll(cfg *Config, overwrite bool) (written, failed []string, err error) {
	xs, err := glob(cfg.Fs, cfg.ImageDir, rawprogram.EncryptedPattern)
	if err != nil {
		return nil, nil, err
	}
	if len(xs) == 0 {
		return nil, nil, nil
	}
	if err := cfg.Fs.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %v", cfg.OutputDir, err)
	}

	log.Infof("Found %d .x files. Decrypting to '%s'", len(xs), filepath.Base(cfg.OutputDir))
	for _, x := range xs {
		out := filepath.Join(cfg.OutputDir, xmlName(x))
		if !overwrite && utils.Exists(cfg.Fs, out) {
			written = append(written, out)
			continue
		}
		n, err := DecryptFile(cfg.Fs, x, out)
		if err != nil {
			utils.Indent(log.WithError(err).Error, 2)(fmt.Sprintf("Decryption failed for %s", filepath.Base(x)))
			failed = append(failed, x)
			continue
		}
		utils.Indent(log.WithField("size", n).Info, 2)(fmt.Sprintf("Decrypted: %s -> %s", filepath.Base(x), filepath.Base(out)))
		written = append(written, out)
	}

	return written, failed, nil
}

// ScanDocuments returns the partition tables to search, decrypting .x files when no XML exists yet.
func ScanDocuments(cfg *Config) ([]string, error) {
	for _, dir := range []string{cfg.OutputDir, cfg.ImageDir} {
		xmls, err := glob(cfg.Fs, dir, rawprogram.DocumentPattern)
		if err != nil {
			return nil, err
		}
		if len(xmls) > 0 {
			return xmls, nil
		}
	}

	log.Info("No XML files found. Checking for .x files to decrypt")
	written, _, err := DecryptAll(cfg, false)
	if err != nil {
		return nil, err
	}
	if len(written) == 0 {
		return nil, fmt.Errorf("%w: no .xml or .x files found in '%s'", rawprogram.ErrNoSourceDocuments, filepath.Base(cfg.ImageDir))
	}
	return written, nil
}

// LoadDocuments reads paths into documents; unreadable files are logged and skipped.
func LoadDocuments(fs afero.Fs, paths []string) []rawprogram.Document {
	docs := make([]rawprogram.Document, 0, len(paths))
	for _, p := range paths {
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			log.WithError(err).Errorf("failed to read %s", filepath.Base(p))
			continue
		}
		docs = append(docs, rawprogram.Document{Name: filepath.Base(p), Data: data})
	}
	return docs
}

// PartitionInfo resolves label across the available partition tables.
func PartitionInfo(cfg *Config, label string) (*rawprogram.Partition, error) {
	paths, err := ScanDocuments(cfg)
	if err != nil {
		return nil, err
	}
	r := rawprogram.Resolver{
		OnError: func(pe *rawprogram.ParseError) {
			log.WithError(pe.Err).Errorf("Error parsing %s", pe.Document)
		},
	}
	return r.Resolve(label, LoadDocuments(cfg.Fs, paths))
}

// Modify prepares OutputDir for flashing: decrypts and collects the partition
// tables, applies the wipe mode, removes unusable tables and derives the
// write variants. Cancelling ctx stops between steps and removes both the
// workspace and the partial OutputDir.
func Modify(ctx context.Context, cfg *Config, opts Options) (*Report, error) {
	if utils.OsFs(cfg.Fs) {
		if err := utils.WaitForDirectory(ctx, cfg.ImageDir); err != nil {
			return nil, err
		}
	} else if !utils.IsDir(cfg.Fs, cfg.ImageDir) {
		return nil, fmt.Errorf("image folder %s not found", cfg.ImageDir)
	}

	if err := cfg.Fs.RemoveAll(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to clear %s: %v", cfg.OutputDir, err)
	}
	if err := cfg.Fs.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %v", cfg.OutputDir, err)
	}

	var report Report
	err := utils.Workspace(cfg.Fs, cfg.WorkDir, func(string) error {
		if err := collect(cfg, &report); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := rewrite(cfg, opts.Mode); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Deleted = cleanup(cfg)
		if !opts.SkipWriteVariants {
			log.Info("Creating custom write XMLs for devinfo/persist")
			report.Variants = writeVariants(cfg)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			// interrupted: don't leave a half-built output folder behind
			if rerr := cfg.Fs.RemoveAll(cfg.OutputDir); rerr != nil {
				log.WithError(rerr).Warnf("failed to remove %s", cfg.OutputDir)
			}
		}
		return &report, err
	}

	log.Infof("XML processing complete. All files are in '%s'", filepath.Base(cfg.OutputDir))
	return &report, nil
}

func collect(cfg *Config, report *Report) error {
	log.Infof("Scanning files in '%s'", filepath.Base(cfg.ImageDir))

	decrypted, failed, err := DecryptAll(cfg, true)
	if err != nil {
		return err
	}
	report.Decrypted = decrypted
	report.Failed = failed

	xmls, err := glob(cfg.Fs, cfg.ImageDir, "*.xml")
	if err != nil {
		return err
	}
	if len(xmls) > 0 {
		log.Infof("Found %d .xml files. Moving to '%s'", len(xmls), filepath.Base(cfg.OutputDir))
	}
	for _, x := range xmls {
		out := filepath.Join(cfg.OutputDir, filepath.Base(x))
		if err := utils.MoveFile(cfg.Fs, x, out); err != nil {
			utils.Indent(log.WithError(err).Error, 2)(fmt.Sprintf("Error moving %s", filepath.Base(x)))
			continue
		}
		utils.Indent(log.Info, 2)(fmt.Sprintf("Moved: %s", filepath.Base(x)))
		report.Moved = append(report.Moved, out)
	}

	if len(report.Decrypted) == 0 && len(report.Moved) == 0 {
		if err := cfg.Fs.RemoveAll(cfg.OutputDir); err != nil {
			log.WithError(err).Warnf("failed to remove %s", cfg.OutputDir)
		}
		return fmt.Errorf("%w in '%s'", ErrNoFirmwareFiles, filepath.Base(cfg.ImageDir))
	}

	return nil
}

// selectTarget applies the document selection policy and returns the wipe/no-wipe target.
func selectTarget(cfg *Config) (string, error) {
	primary := filepath.Join(cfg.OutputDir, rawprogram.Primary)
	unsparse := filepath.Join(cfg.OutputDir, rawprogram.PrimaryUnsparse)
	if !utils.Exists(cfg.Fs, primary) && utils.Exists(cfg.Fs, unsparse) {
		log.Infof("'%s' not found. Copying '%s'", rawprogram.Primary, rawprogram.PrimaryUnsparse)
		if err := utils.CopyFile(cfg.Fs, unsparse, primary); err != nil {
			return "", err
		}
	}

	target := filepath.Join(cfg.OutputDir, rawprogram.SavePersist)
	if utils.Exists(cfg.Fs, target) {
		return target, nil
	}
	fallback := filepath.Join(cfg.OutputDir, rawprogram.SavePersistHalf)
	if !utils.Exists(cfg.Fs, fallback) {
		return "", fmt.Errorf("%w: neither '%s' nor '%s' found", ErrMissingCriticalFile, rawprogram.SavePersist, rawprogram.SavePersistHalf)
	}
	log.Infof("'%s' not found. Renaming '%s'", rawprogram.SavePersist, rawprogram.SavePersistHalf)
	if err := cfg.Fs.Rename(fallback, target); err != nil {
		return "", perrors.Wrap(err, "failed to rename fallback file")
	}
	return target, nil
}

func rewrite(cfg *Config, mode rawprogram.Mode) error {
	target, err := selectTarget(cfg)
	if err != nil {
		return err
	}

	log.Infof("Modifying '%s'", filepath.Base(target))
	doc, err := afero.ReadFile(cfg.Fs, target)
	if err != nil {
		return perrors.Wrapf(err, "failed to read %s", filepath.Base(target))
	}

	out, res, err := rawprogram.ApplyWipeMode(doc, mode)
	if err != nil {
		return perrors.Wrapf(err, "failed to patch %s", filepath.Base(target))
	}
	switch mode {
	case rawprogram.Wipe:
		utils.Indent(log.Info, 2)("[WIPE] Skipping metadata and userdata removal")
	default:
		utils.Indent(log.WithField("removed", res.Occurrences).Info, 2)("[NO WIPE] Removing metadata and userdata entries")
	}

	if err := utils.WriteFile(cfg.Fs, target, out); err != nil {
		return err
	}
	utils.Indent(log.Info, 2)("Patched successfully")
	return nil
}

func cleanup(cfg *Config) []string {
	log.Info("Cleaning up unnecessary files in output folder")

	xmls, err := glob(cfg.Fs, cfg.OutputDir, "*.xml")
	if err != nil {
		log.WithError(err).Error("failed to list output folder")
		return nil
	}
	var deleted []string
	for _, x := range xmls {
		if !rawprogram.IsGarbage(x) {
			continue
		}
		if err := cfg.Fs.Remove(x); err != nil {
			utils.Indent(log.WithError(err).Warn, 2)(fmt.Sprintf("Failed to delete %s", filepath.Base(x)))
			continue
		}
		utils.Indent(log.Info, 2)(fmt.Sprintf("Deleted: %s", filepath.Base(x)))
		deleted = append(deleted, x)
	}
	if len(deleted) == 0 {
		utils.Indent(log.Info, 2)("No files to delete")
	}
	return deleted
}

func writeVariants(cfg *Config) []string {
	var written []string
	for _, v := range rawprogram.WriteVariants {
		src := filepath.Join(cfg.OutputDir, v.Source)
		dst := filepath.Join(cfg.OutputDir, v.Dest)

		doc, err := afero.ReadFile(cfg.Fs, src)
		if err != nil {
			log.Warnf("'%s' not found. Cannot create %s write XML", v.Source, v.Label)
			continue
		}
		out, n := rawprogram.RetargetFilename(doc, v.Label, v.Filename)
		if n == 0 {
			log.Warnf("No '%s' entry with a filename in '%s'", v.Label, v.Source)
		}
		if err := utils.WriteFile(cfg.Fs, dst, out); err != nil {
			log.WithError(err).Errorf("Failed to create '%s'", v.Dest)
			continue
		}
		log.Infof("Created '%s' in '%s'", v.Dest, filepath.Base(cfg.OutputDir))
		written = append(written, dst)
	}
	return written
}
