package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_FoldsTurkishLetters(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		in   string
		want string
	}{
		{"Samsun", "samsun"},
		{"İstanbul", "istanbul"},
		{"Çankırı", "cankiri"},
		{"Şanlıurfa", "sanliurfa"},
		{"GÜMÜŞHANE", "gumushane"},
		{"  Muğla ", "mugla"},
		{"diyarbakır", "diyarbakir"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Normalize(tt.in), "input %q", tt.in)
	}
}

func TestProvinceForPostalCode(t *testing.T) {
	r := NewRegistry()

	province, ok := r.ProvinceForPostalCode("55200")
	assert.True(t, ok)
	assert.Equal(t, "samsun", province)

	province, ok = r.ProvinceForPostalCode("34000")
	assert.True(t, ok)
	assert.Equal(t, "istanbul", province)

	_, ok = r.ProvinceForPostalCode("99000")
	assert.False(t, ok)

	_, ok = r.ProvinceForPostalCode("5")
	assert.False(t, ok)
}

func TestKnown(t *testing.T) {
	r := NewRegistry()

	canonical, ok := r.Known("Şanlıurfa")
	assert.True(t, ok)
	assert.Equal(t, "sanliurfa", canonical)

	_, ok = r.Known("Atlantis")
	assert.False(t, ok)
}

func TestPlateNumber(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, 6, r.PlateNumber("Ankara"))
	assert.Equal(t, 34, r.PlateNumber("İstanbul"))
	assert.Equal(t, 55, r.PlateNumber("samsun"))
	assert.Zero(t, r.PlateNumber("nowhere"))
}
