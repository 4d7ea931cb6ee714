package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDictionariesLoad(t *testing.T) {
	t.Parallel()

	require.Greater(t, Resume().Len(), 100)
	require.Greater(t, Jobs().Len(), 150)
	assert.Equal(t, ResumeDictionary, Resume().Name())
	assert.Equal(t, JobsDictionary, Jobs().Name())
}

func TestByName(t *testing.T) {
	t.Parallel()

	dict, err := ByName("JOBS")
	require.NoError(t, err)
	assert.Same(t, Jobs(), dict)

	_, err = ByName("unknown")
	require.Error(t, err)
}

func TestFindWholeWordsInDictionaryOrder(t *testing.T) {
	t.Parallel()

	dict, err := New("test", []string{"React", "Java", "JavaScript", "C++", "Node.js", "Go"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{
			name:  "order follows dictionary not text",
			texts: []string{"Node.js and react"},
			want:  []string{"React", "Node.js"},
		},
		{
			name:  "java is not found inside javascript",
			texts: []string{"Looking for a JavaScript developer"},
			want:  []string{"JavaScript"},
		},
		{
			name:  "symbols at the end of a term",
			texts: []string{"Modern C++, (node.js)"},
			want:  []string{"C++", "Node.js"},
		},
		{
			name:  "substring of a longer word is ignored",
			texts: []string{"Google ecosystem"},
			want:  []string{},
		},
		{
			name:  "duplicates across texts collapse",
			texts: []string{"React", "react", ""},
			want:  []string{"React"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dict.Find(tt.texts...))
		})
	}
}

func TestNewRejectsInvalidDictionaries(t *testing.T) {
	t.Parallel()

	_, err := New("dup", []string{"React", "react"})
	require.ErrorContains(t, err, "duplicate entry")

	_, err = New("empty", []string{" ", ""})
	require.ErrorContains(t, err, "no entries")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: custom\nskills:\n  - Go\n  - Kafka\n"), 0o600))

	dict, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", dict.Name())
	assert.Equal(t, []string{"Go", "Kafka"}, dict.Entries())
	assert.True(t, dict.Contains("kafka"))

	_, err = Load([]byte("skills: [Go]"))
	require.ErrorContains(t, err, "name is required")
}

func TestCompare(t *testing.T) {
	t.Parallel()

	left, err := New("left", []string{"React", "Go", "Docker"})
	require.NoError(t, err)
	right, err := New("right", []string{"react", "Kafka"})
	require.NoError(t, err)

	diff := Compare(left, right)
	assert.Equal(t, []string{"Docker", "Go"}, diff.OnlyLeft)
	assert.Equal(t, []string{"Kafka"}, diff.OnlyRight)
	assert.Equal(t, 1, diff.Shared)
}

func TestBuiltinDictionariesDiverge(t *testing.T) {
	t.Parallel()

	diff := Compare(Resume(), Jobs())
	assert.NotEmpty(t, diff.OnlyRight)
	assert.Contains(t, diff.OnlyRight, "Kanban")
}
