package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_PrefixesByLevel(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Success("paciente %q criado", "Ana")
	w.Error("falha ao salvar")
	w.Info("carregando")

	assert.Equal(t, "✔ paciente \"Ana\" criado\n✖ falha ao salvar\n• carregando\n", buf.String())
}

func TestRecorder_CapturesInOrder(t *testing.T) {
	var r Recorder
	r.Info("a")
	r.Success("b %d", 2)
	r.Error("c")

	msgs := r.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{Level: LevelInfo, Text: "a"}, msgs[0])
	assert.Equal(t, Message{Level: LevelSuccess, Text: "b 2"}, msgs[1])
	assert.Equal(t, Message{Level: LevelError, Text: "c"}, msgs[2])
}

func TestRecorder_MessagesReturnsCopy(t *testing.T) {
	var r Recorder
	r.Info("a")
	first := r.Messages()
	r.Info("b")
	assert.Len(t, first, 1)
	assert.Len(t, r.Messages(), 2)
}
