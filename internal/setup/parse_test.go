package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchInterviewType(t *testing.T) {
	tests := []struct {
		transcript string
		want       string
		ok         bool
	}{
		{"I want a technical interview", TypeTechnical, true},
		{"Tech please", TypeTechnical, true},
		{"BEHAVIORAL", TypeBehavioral, true},
		{"let's do behavior questions", TypeBehavioral, true},
		{"a mix of both", TypeMix, true},
		{"mixed", TypeMix, true},
		{"both would be nice", TypeMix, true},
		{"something else entirely", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := MatchInterviewType(tt.transcript)
		assert.Equal(t, tt.ok, ok, "transcript %q", tt.transcript)
		assert.Equal(t, tt.want, got, "transcript %q", tt.transcript)
	}
}

func TestParseTechStack(t *testing.T) {
	stack, ok := ParseTechStack("React, Node and TypeScript")
	assert.True(t, ok)
	assert.Equal(t, []string{"React", "Node", "TypeScript"}, stack)
}

func TestParseTechStackSingle(t *testing.T) {
	stack, ok := ParseTechStack("just python")
	assert.True(t, ok)
	assert.Equal(t, []string{"just python"}, stack)
}

func TestParseTechStackNoKeyword(t *testing.T) {
	_, ok := ParseTechStack("cobol and fortran")
	assert.False(t, ok)
}

func TestParseTechStackEmpty(t *testing.T) {
	_, ok := ParseTechStack("")
	assert.False(t, ok)
}

func TestParseQuestionCount(t *testing.T) {
	tests := []struct {
		transcript string
		want       int
		ok         bool
	}{
		{"7", 7, true},
		{"seven", 7, true},
		{"I'd like seven please", 7, true},
		{"let's do 12 questions", 12, true},
		{"fifteen", 15, true},
		{"ten", 10, true},
		{"3", 0, false},
		{"twenty", 0, false},
		{"sixteen", 0, false},
		{"banana", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseQuestionCount(tt.transcript)
		assert.Equal(t, tt.ok, ok, "transcript %q", tt.transcript)
		assert.Equal(t, tt.want, got, "transcript %q", tt.transcript)
	}
}
