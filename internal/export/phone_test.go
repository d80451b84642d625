package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+90 532 123 45 67", "5321234567"},
		{"0532 123 45 67", "05321234567"},
		{"(0362) 233 00 00", "03622330000"},
		{"0362-233-00-00", "03622330000"},
		{"+ 90 532 123 45 67", "5321234567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}

func TestIsTurkishMobile(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"05321234567", true},
		{"05051234567", true},
		{"05491234567", true},
		{"03622330000", false}, // landline area code
		{"05401234567", false}, // 0540 is not an allocated prefix
		{"0532123456", false},  // too short
		{"053212345678", false},
		{"5321234567", false}, // missing leading zero
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTurkishMobile(tt.in), "input %q", tt.in)
	}
}

func TestSplitPhone(t *testing.T) {
	tests := []struct {
		name         string
		phone        string
		phoneIntl    string
		wantMobile   string
		wantLandline string
	}{
		{"mobile via intl", "", "+90 532 123 45 67", "+90 532 123 45 67", Missing},
		{"landline via intl", "", "+90 362 233 00 00", Missing, "+90 362 233 00 00"},
		{"mobile national", "0532 123 45 67", "", "0532 123 45 67", Missing},
		{"landline national", "(0362) 233 00 00", "", Missing, "(0362) 233 00 00"},
		{"national ignored once intl is mobile", "0533 111 22 33", "+90 532 123 45 67", "+90 532 123 45 67", Missing},
		{"national fills mobile next to intl landline", "0533 111 22 33", "+90 362 233 00 00", "0533 111 22 33", "+90 362 233 00 00"},
		{"both missing", "", "", Missing, Missing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mobile, landline := SplitPhone(tt.phone, tt.phoneIntl)
			assert.Equal(t, tt.wantMobile, mobile)
			assert.Equal(t, tt.wantLandline, landline)
		})
	}
}
