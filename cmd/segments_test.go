package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSubcommand(t *testing.T, sub string, args ...string) (*bytes.Buffer, error) {
	t.Helper()

	cmd := newRootCmd()

	switch sub {
	case "segments":
		cmd.AddCommand(newSegmentsCmd())
	case "show":
		cmd.AddCommand(newShowCmd())
	}

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{sub}, args...))

	return out, cmd.Execute()
}

func TestSegmentsCmd_ListsFragmentsAndLoops(t *testing.T) {
	swapFS(t, map[string]string{"rep.stim": repetitionLoopText})

	out, err := runSubcommand(t, "segments", "rep.stim")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "fragment")
	assert.Contains(t, out.String(), "loop")
	assert.Contains(t, out.String(), "3")
}

func TestSegmentsCmd_BadCircuit(t *testing.T) {
	swapFS(t, map[string]string{"bad.stim": "FROB 0\n"})

	_, err := runSubcommand(t, "segments", "bad.stim")
	require.Error(t, err)
}

func TestShowCmd_PrintsCanonicalForm(t *testing.T) {
	swapFS(t, map[string]string{"toy.stim": "R 0\nTICK\nM 0  # readout\n"})

	out, err := runSubcommand(t, "show", "toy.stim")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "R 0")
	assert.Contains(t, out.String(), "M 0")
	assert.NotContains(t, out.String(), "# readout")
}

func TestShowCmd_MissingFile(t *testing.T) {
	swapFS(t, map[string]string{})

	_, err := runSubcommand(t, "show", "nope.stim")
	require.Error(t, err)
}
