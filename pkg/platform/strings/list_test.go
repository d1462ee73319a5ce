package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "blank", raw: "   ", expected: nil},
		{name: "single permission", raw: "deal:read", expected: []string{"deal:read"}},
		{name: "trims and drops empties", raw: " deal:read ,, deal:write ,", expected: []string{"deal:read", "deal:write"}},
		{name: "keeps first occurrence", raw: "b1:9092,b2:9092,b1:9092", expected: []string{"b1:9092", "b2:9092"}},
		{name: "case sensitive", raw: "EMPLOYEE,employee", expected: []string{"EMPLOYEE", "employee"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.raw, ","))
		})
	}
}

func TestDedupeAndTrim(t *testing.T) {
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{" ", ""}))
	assert.Equal(t, []string{"a", "b"}, DedupeAndTrim([]string{" a", "b ", "a"}))
}
