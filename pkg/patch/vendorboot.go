package patch

var (
	rowDot = []byte{0x2E, 0x52, 0x4F, 0x57} // .ROW
	prcDot = []byte{0x2E, 0x50, 0x52, 0x43} // .PRC
	rowI   = []byte{0x49, 0x52, 0x4F, 0x57} // IROW
	prcI   = []byte{0x49, 0x50, 0x52, 0x43} // IPRC
)

// VendorBoot swaps the ROW vendor_boot signature for the PRC one.
func VendorBoot() *Patch {
	return &Patch{
		Name: "vendor_boot",
		Rules: []Rule{{
			Name: "ROW->PRC",
			Ops: []Operation{
				{Target: rowDot, Replacement: prcDot},
				{Target: rowI, Replacement: prcI},
			},
		}},
		Applied: [][]byte{prcDot, prcI},
		InPlace: true,
	}
}
