// Package region contains the devinfo/persist region code commands.
package region

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/utils"
	"github.com/blacktop/ltbox/pkg/patch"
	"github.com/blacktop/ltbox/pkg/region"
	"github.com/spf13/afero"
)

// Images maps each image that carries a region code to its patched output name.
var Images = map[string]string{
	"devinfo.img": "devinfo_modified.img",
	"persist.img": "persist_modified.img",
}

// ImageNames returns the keys of Images in a stable order.
func ImageNames() []string {
	names := make([]string, 0, len(Images))
	for name := range Images {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Detect scans the images in dir for the first code of codes and returns
// image name -> detected code. Images that are missing or carry no known
// code map to "".
func Detect(fs afero.Fs, dir string, codes []string) map[string]string {
	detected := make(map[string]string, len(Images))
	if len(codes) == 0 {
		log.Warn("Region code table is empty")
	}
	for _, name := range ImageNames() {
		detected[name] = ""
		path := filepath.Join(dir, name)
		if !utils.Exists(fs, path) {
			continue
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			log.WithError(err).Errorf("Error reading %s", name)
			continue
		}
		if code, ok := region.Scan(data, codes); ok {
			detected[name] = code
		}
	}
	return detected
}

// TargetExists reports whether any image in dir already carries code.
func TargetExists(fs afero.Fs, dir, code string) bool {
	for _, name := range ImageNames() {
		data, err := afero.ReadFile(fs, filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if region.Contains(data, code) {
			return true
		}
	}
	return false
}

// Patch swaps the detected code of each image in dir for replacement and
// writes the *_modified.img outputs. Images with no detected code are skipped.
func Patch(fs afero.Fs, dir, replacement string, detected map[string]string) (map[string]patch.Result, error) {
	replacement, err := region.Normalize(replacement)
	if err != nil {
		return nil, err
	}

	log.Infof("Starting patch process (new region: %s)", replacement)

	results := make(map[string]patch.Result)
	for _, name := range ImageNames() {
		current, ok := detected[name]
		if !ok {
			continue
		}
		in := filepath.Join(dir, name)
		if !utils.Exists(fs, in) {
			continue
		}
		log.Infof("Processing '%s'", name)
		if current == "" {
			utils.Indent(log.Info, 2)(fmt.Sprintf("No region code detected for '%s'. Skipping", name))
			continue
		}
		p, err := region.NewPatch(current, replacement)
		if err != nil {
			return results, err
		}
		res, err := utils.PatchFile(fs, in, filepath.Join(dir, Images[name]), p)
		if err != nil {
			return results, err
		}
		results[name] = res
	}

	log.Info("Patching finished")
	return results, nil
}
