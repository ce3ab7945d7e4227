package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferJobTypes(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Technical Recruiter", []string{"engineering"}},
		{"Hiring backend engineers and data scientists", []string{"engineering", "data"}},
		{"Sales & Marketing recruiter at Acme", []string{"sales", "marketing"}},
		{"Talent partner", []string{}},
		{"Recruiting for Productivity tools", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, InferJobTypes(tt.text))
		})
	}
}
