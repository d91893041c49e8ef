package kernel

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr bool
	}{
		{
			name: "gki banner",
			data: bytes.Join([][]byte{
				bytes.Repeat([]byte{0x00}, 32),
				[]byte("Linux version 5.15.123-android13-8-g1234abcd (build-user@build-host) #1 SMP PREEMPT"),
				{0x00, 0xff},
			}, nil),
			want: "5.15.123",
		},
		{
			name: "skips short runs",
			data: []byte("\x00Linux 1.2.3\x00\x01Linux version 6.1.57-android14\x00"),
			want: "6.1.57",
		},
		{
			name:    "no banner",
			data:    []byte("\x00\x00some random strings 1.2.3 here\x00"),
			wantErr: true,
		},
		{
			name:    "banner without version",
			data:    []byte("\x00Linux version unknown-build\x00"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Version(tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrVersionNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseComparable(t *testing.T) {
	info, err := Parse([]byte("Linux version 5.10.198-android12-9"))
	require.NoError(t, err)
	assert.Contains(t, info.Banner, "android12")
	assert.True(t, info.Version.LessThan(version.Must(version.NewVersion("5.15.0"))))
}
