package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Status(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Status("[OK]", "bound original library")
	assert.Equal(t, "[OK] bound original library\n", buf.String())
}

func TestWriter_StatusWithoutIconIndents(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Status("", "detail line")
	assert.Equal(t, "   detail line\n", buf.String())
}

func TestWriter_Levels(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Successf("ran %d libraries", 2)
	w.Warningf("init token was %d", 0)
	w.Errorf("open failed with %d", -5)

	out := buf.String()
	assert.Contains(t, out, "[OK] ran 2 libraries")
	assert.Contains(t, out, "[WARN] init token was 0")
	assert.Contains(t, out, "[FAIL] open failed with -5")
}
