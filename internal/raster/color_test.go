package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#ff000080", color.NRGBA{255, 0, 0, 128}},
		{"#00A1FF", color.NRGBA{0, 161, 255, 255}},
		{"rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 255}},
		{"rgba(255, 255, 255, 0.3)", color.NRGBA{255, 255, 255, 77}},
		{" White ", color.NRGBA{255, 255, 255, 255}},
		{"transparent", color.NRGBA{}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseColor(tc.in)
			require.True(t, ok)
			require.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"", "#12", "#ggg", "rgb(1,2)", "hsl(0, 0%, 0%)", "chartreuse-ish"} {
		_, ok := ParseColor(bad)
		require.False(t, ok, bad)
	}
}

func TestFade(t *testing.T) {
	require.Equal(t, uint8(64), fade(color.NRGBA{A: 128}, 0.5).A)
	require.Equal(t, uint8(0), fade(color.NRGBA{A: 255}, 0).A)
}
