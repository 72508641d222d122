package avatar

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorMatchesWebClient(t *testing.T) {
	cases := map[string]string{
		"A":                                "#16a085",
		"ab":                               "#1abc9c",
		"Alice":                            "#e74c3c",
		"Jane Doe":                         "#2a5298",
		"averyveryverylongusername_rocket": "#d35400",
	}
	for name, want := range cases {
		assert.Equal(t, want, Color(name), name)
	}
}

func TestColorDeterministic(t *testing.T) {
	first := Color("Alice")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Color("Alice"))
	}
	assert.Contains(t, Palette, Color(""))
}

func TestHashWrapsLikeInt32Shift(t *testing.T) {
	assert.Equal(t, int64(63350368), Hash("Alice"))
	assert.Equal(t, int64(-5038973112), Hash("Jane Doe"))
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":       "JD",
		"X":              "X",
		"rocketman":      "RO",
		"jane doe smith": "JD",
		"Jane  Doe":      "J",
		"élodie":         "ÉL",
		"":               "",
	}
	for name, want := range cases {
		assert.Equal(t, want, Initials(name), "%q", name)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#2a5298")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x2a, 0x52, 0x98, 0xff}, c)

	_, err = ParseHex("2a5298")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	img, err := Render("Jane Doe", 64)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())

	want, _ := ParseHex(Color("Jane Doe"))
	assert.Equal(t, want, img.RGBAAt(32, 4))
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)
}

func TestRenderRejectsTinySizes(t *testing.T) {
	_, err := Render("x", 4)
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, "Alice", 32))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}
