package cmd

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QCHackers/tqec-sub002/internal/controller"
)

// fakeFS is an in-memory CircuitFSAdapter safe for concurrent batch runs.
type fakeFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}

	return data, nil
}

func (f *fakeFS) WriteFile(path string, content []byte, _ os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.files[path] = content

	return nil
}

func (f *fakeFS) Glob(pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []string

	for path := range f.files {
		ok, err := filepath.Match(pattern, path)
		if err != nil {
			return nil, err
		}

		if ok {
			matches = append(matches, path)
		}
	}

	return matches, nil
}

func swapFS(t *testing.T, files map[string]string) *fakeFS {
	t.Helper()

	fake := &fakeFS{files: map[string][]byte{}}
	for path, content := range files {
		fake.files[path] = []byte(content)
	}

	original := fsAdapter
	fsAdapter = fake
	t.Cleanup(func() { fsAdapter = original })

	return fake
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "tqec", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := newRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "backward record offsets")
}

func TestInit(t *testing.T) {
	assert.NotNil(t, fsAdapter)
}

func TestSelectUI(t *testing.T) {
	cmd := newRootCmd()

	assert.IsType(t, &controller.SimpleUI{}, selectUI(cmd))
}

func TestExpandPaths(t *testing.T) {
	swapFS(t, map[string]string{
		"a.stim":       "",
		"b.stim":       "",
		"notes.txt":    "",
		"sub/c.circ":   "",
		"literal.stim": "",
	})

	paths, err := expandPaths([]string{"?.stim", "missing.stim"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.stim", "b.stim", "missing.stim"}, paths)
}

func TestParseObservableFlags(t *testing.T) {
	tests := []struct {
		name    string
		specs   []string
		want    []observableSpec
		wantErr bool
	}{
		{"empty", nil, []observableSpec{}, false},
		{
			"single qubit",
			[]string{"0:4"},
			[]observableSpec{{index: 0, qubits: []int{4}}},
			false,
		},
		{
			"multiple qubits with spaces",
			[]string{"2:0, 4, 8"},
			[]observableSpec{{index: 2, qubits: []int{0, 4, 8}}},
			false,
		},
		{"missing colon", []string{"3"}, nil, true},
		{"negative index", []string{"-1:0"}, nil, true},
		{"bad qubit", []string{"0:x"}, nil, true},
		{"empty qubit list", []string{"0:"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseObservableFlags(tt.specs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
