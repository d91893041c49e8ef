package patch

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorBoot(t *testing.T) {
	tests := []struct {
		name        string
		in          []byte
		want        []byte
		state       State
		occurrences int
	}{
		{
			name:        "row patterns",
			in:          []byte("\x00abc.ROW\x00xyzIROW\x00.ROW"),
			want:        []byte("\x00abc.PRC\x00xyzIPRC\x00.PRC"),
			state:       Patched,
			occurrences: 3,
		},
		{
			name:  "already prc",
			in:    []byte("\x00\x00IPRC\x00"),
			want:  []byte("\x00\x00IPRC\x00"),
			state: AlreadyApplied,
		},
		{
			name:  "nothing",
			in:    []byte("vendor_boot without markers"),
			want:  []byte("vendor_boot without markers"),
			state: NotApplicable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := bytes.Clone(tt.in)
			out, res, err := Apply(tt.in, VendorBoot())
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.state, res.State)
			assert.Equal(t, tt.state == Patched, res.Changed)
			assert.Equal(t, tt.occurrences, res.Occurrences)
			assert.Len(t, out, len(tt.in))
			assert.Equal(t, orig, tt.in, "input buffer must not be mutated")
		})
	}
}

func TestVendorBootIdempotent(t *testing.T) {
	img := append(bytes.Repeat([]byte{0xff}, 32), []byte(".ROW....IROW")...)

	first, res, err := Apply(img, VendorBoot())
	require.NoError(t, err)
	require.Equal(t, Patched, res.State)
	require.Equal(t, 2, res.Occurrences)

	second, res, err := Apply(first, VendorBoot())
	require.NoError(t, err)
	assert.Equal(t, AlreadyApplied, res.State)
	assert.False(t, res.Changed)
	assert.Zero(t, res.Occurrences)
	assert.Equal(t, first, second)
}

func TestFirstMatchingRuleWins(t *testing.T) {
	p := &Patch{
		Name: "ordered",
		Rules: []Rule{
			{Name: "missing", Ops: []Operation{{Target: []byte("zz"), Replacement: []byte("yy")}}},
			{Name: "first", Ops: []Operation{{Target: []byte("ab"), Replacement: []byte("AB")}}},
			{Name: "second", Ops: []Operation{{Target: []byte("cd"), Replacement: []byte("CD")}}},
		},
		InPlace: true,
	}
	out, res, err := Apply([]byte("abcdab"), p)
	require.NoError(t, err)
	assert.Equal(t, "ABcdAB", string(out))
	assert.Equal(t, 2, res.Occurrences)
}

func TestNonOverlappingCount(t *testing.T) {
	p := Replace("aa", true, [2][]byte{[]byte("aa"), []byte("bb")})
	out, res, err := Apply([]byte("aaaaa"), p)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Occurrences)
	assert.Equal(t, "bbbba", string(out))
}

func TestInvalidPatternLength(t *testing.T) {
	buf := []byte("\x00\x00\x00USXX\x00\x00\x00")
	orig := bytes.Clone(buf)
	p := Replace("region", true, [2][]byte{[]byte("USXX"), []byte("CNXXX")})

	out, res, err := Apply(buf, p)
	assert.ErrorIs(t, err, ErrInvalidPatternLength)
	assert.Nil(t, out)
	assert.False(t, res.Changed)
	assert.Equal(t, orig, buf)
}

func TestEmptyPattern(t *testing.T) {
	_, _, err := Apply([]byte("abc"), Replace("empty", false, [2][]byte{nil, []byte("x")}))
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestApplyStringResizes(t *testing.T) {
	p := Replace("strip", false,
		[2][]byte{[]byte(`filename="a.img"`), nil},
		[2][]byte{[]byte(`filename="b.img"`), []byte(`filename="longer_b.img"`)},
	)
	doc := `<program filename="a.img" label="x"/><program filename="b.img" label="y"/>`
	out, res, err := ApplyString(doc, p)
	require.NoError(t, err)
	assert.Equal(t, Patched, res.State)
	assert.Equal(t, 2, res.Occurrences)
	assert.Equal(t, `<program  label="x"/><program filename="longer_b.img" label="y"/>`, out)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "patched", Patched.String())
	assert.Equal(t, "already patched", AlreadyApplied.String())
	assert.Equal(t, "not applicable", NotApplicable.String())
	assert.Equal(t, "State(9)", State(9).String())
}
