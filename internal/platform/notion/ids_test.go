package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	const want = "1f2e3d4c-5b6a-7988-a1b2-c3d4e5f60718"

	tests := []struct {
		name string
		in   string
	}{
		{"dashed", want},
		{"compact", "1f2e3d4c5b6a7988a1b2c3d4e5f60718"},
		{"uppercase", "1F2E3D4C5B6A7988A1B2C3D4E5F60718"},
		{"share url", "https://www.notion.so/acme/Project-Home-1f2e3d4c5b6a7988a1b2c3d4e5f60718"},
		{"share url with query", "https://www.notion.so/Project-Home-1f2e3d4c5b6a7988a1b2c3d4e5f60718?pvs=4"},
		{"padded", "  1f2e3d4c5b6a7988a1b2c3d4e5f60718\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeID(tt.in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalizeID_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "your-parent-page-id", "1234", "zz2e3d4c5b6a7988a1b2c3d4e5f60718"} {
		_, err := NormalizeID(in)
		assert.Error(t, err, "input %q", in)
	}
}
