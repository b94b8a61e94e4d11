package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "qa engineer", Fold("  QA Engineer\t"))
	assert.Equal(t, "", Fold("   "))
}

func TestSortedCopy(t *testing.T) {
	in := []string{"Python", "Docker", "SQL"}
	out := SortedCopy(in)
	assert.Equal(t, []string{"Docker", "Python", "SQL"}, out)
	assert.Equal(t, []string{"Python", "Docker", "SQL"}, in)
	assert.Empty(t, SortedCopy(nil))
}
