package iface

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
)

type recordingHandler struct {
	sentences []*nmea0183.Sentence
	raw       [][]byte
}

func (r *recordingHandler) HandleLine(sentence *nmea0183.Sentence, raw []byte) {
	r.sentences = append(r.sentences, sentence)
	r.raw = append(r.raw, append([]byte(nil), raw...))
}

func TestLineSourceFansOutToEveryHandler(t *testing.T) {
	source := bytes.NewBufferString("$GPGLL,4916.45,N,12311.12,W,225444,A*31\r\n")
	tree := datamodel.NewTree()
	ls := NewLineSource(logging.Discard, source, nil, tree, nil)

	first := &recordingHandler{}
	second := &recordingHandler{}
	ls.AddHandler(first)
	ls.AddHandler(second)

	ctx, cancel := context.WithCancel(context.Background())
	err := runUntilEOF(t, ctx, ls)
	cancel()
	require.ErrorIs(t, err, io.EOF)

	require.Len(t, first.sentences, 1)
	require.Len(t, second.sentences, 1)
	assert.Equal(t, "GLL", first.sentences[0].Type)
	assert.Equal(t, byte('$'), first.raw[0][0])
	assert.Equal(t, "\r\n", string(first.raw[0][len(first.raw[0])-2:]))
}

func TestLineSourceDropsFilteredTalker(t *testing.T) {
	source := bytes.NewBufferString("$GPGLL,4916.45,N,12311.12,W,225444,A*31\r\n")
	tree := datamodel.NewTree()
	filtered := []nmea0183.Talker{{'G', 'P'}}
	ls := NewLineSource(logging.Discard, source, filtered, tree, nil)

	handler := &recordingHandler{}
	ls.AddHandler(handler)

	err := runUntilEOF(t, context.Background(), ls)
	require.ErrorIs(t, err, io.EOF)
	assert.Empty(t, handler.sentences)

	ls.ExportStats(0)
	assert.Equal(t, "1", ls.talkerFilteredLeaf.String())
}

func runUntilEOF(t *testing.T, ctx context.Context, ls *LineSource) error {
	t.Helper()
	return ls.Run(ctx)
}
