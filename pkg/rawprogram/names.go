package rawprogram

import (
	"path/filepath"
	"strings"
)

// Fixed document names consumed by the flashing tools.
const (
	Primary          = "rawprogram4.xml"
	PrimaryUnsparse  = "rawprogram_unsparse4.xml"
	SavePersist      = "rawprogram_save_persist_unsparse0.xml"
	SavePersistHalf  = "rawprogram_unsparse0-half.xml"
	WritePersist     = "rawprogram_write_persist_unsparse0.xml"
	WriteDevinfo     = "rawprogram4_write_devinfo.xml"
	DocumentPattern  = "rawprogram*.xml"
	EncryptedPattern = "*.x"
)

// WriteVariant retargets one labelled entry of Source at a canonical image and saves it as Dest.
type WriteVariant struct {
	Source   string
	Dest     string
	Label    string
	Filename string
}

// WriteVariants are the single-partition documents derived after a rewrite.
var WriteVariants = []WriteVariant{
	{Source: SavePersist, Dest: WritePersist, Label: "persist", Filename: "persist.img"},
	{Source: Primary, Dest: WriteDevinfo, Label: "devinfo", Filename: "devinfo.img"},
}

// IsGarbage reports whether a document is never usable for flashing.
func IsGarbage(name string) bool {
	name = strings.ToLower(filepath.Base(name))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "rawprogram_unsparse0" {
		return true
	}
	return strings.Contains(name, "wipe_partitions") || strings.Contains(name, "blank_gpt")
}
