package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeString(t *testing.T) {
	assert.Equal(t, "a b c", MakeString(" ", "a", "b", "c"))
	assert.Equal(t, "abc", MakeString("", "a", "b", "c"))
	assert.Equal(t, "", MakeString(" "))
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	SetVerbosity(1)
	SetOutput(&buf)
	defer func() {
		verbose.Store(-1)
		SetOutput(os.Stdout)
	}()

	Log(0, "directory", "loaded")
	Log(2, "too", "chatty")
	out := buf.String()
	assert.Contains(t, out, `msg="directory loaded"`)
	assert.Contains(t, out, "verbosity=0")
	assert.NotContains(t, out, "chatty")
}

func TestVerbosityFromEnv(t *testing.T) {
	verbose.Store(-1)
	t.Setenv("VERBOSITY", "7")
	assert.Equal(t, int32(4), getVerbose())
	t.Setenv("VERBOSITY", "x")
	assert.Equal(t, int32(0), getVerbose())
	SetVerbosity(2)
	defer verbose.Store(-1)
	assert.Equal(t, int32(2), getVerbose())
}
