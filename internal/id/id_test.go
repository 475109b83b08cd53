package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFormatExternalID(t *testing.T) {
	u := uuid.MustParse("01920c4e-8a7b-7c3d-9f00-5a1b2c3d4e5f")
	tests := []struct {
		entity, code string
		want         string
	}{
		{"E1", "1-1100", "E1:1-1100:01920c4e-8a7b-7c3d-9f00-5a1b2c3d4e5f"},
		{"pt maju", "1.1.01", "pt_maju:1.1.01:01920c4e-8a7b-7c3d-9f00-5a1b2c3d4e5f"},
		{"E1", "", "E1:_:01920c4e-8a7b-7c3d-9f00-5a1b2c3d4e5f"},
		{"E:1", "4/100", "E_1:4_100:01920c4e-8a7b-7c3d-9f00-5a1b2c3d4e5f"},
	}
	for _, tt := range tests {
		got := FormatExternalID(tt.entity, tt.code, u)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewExternalID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ext := NewExternalID("E1", "1-1100")
		assert.False(t, seen[ext], "duplicate external ID %s", ext)
		seen[ext] = true
	}
}
