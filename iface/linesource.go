package iface

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// MessageSender is the capability a bridge or server forwards a message through: a non-blocking
// (or, if blocking is true, blocking) send that reports whether the message was accepted.
type MessageSender interface {
	SendMessage(p []byte, blocking bool) bool
}

// LineHandler receives every validated NMEA line a LineSource decodes. Every registered handler
// is called for every line unconditionally, the same way the original firmware calls each of its
// line handlers in turn with no notion of one "consuming" the line — a bridge and a primary
// consumer both get to observe the same traffic.
type LineHandler interface {
	HandleLine(sentence *nmea0183.Sentence, raw []byte)
}

// LineSource assembles and dispatches NMEA 0183 lines from a byte stream, the line-framing
// counterpart of the original firmware's NMEALineSource: it tracks received message counts,
// talker-filtered drops, and the set of talkers actually seen, then fans each accepted line out
// to every registered LineHandler.
type LineSource struct {
	log             logging.Logger
	reader          *nmea0183.LineReader
	handlers        []LineHandler
	filteredTalkers map[nmea0183.Talker]struct{}

	messages, talkerFiltered, badTags         stats.Counter
	messagesLeaf, messageRateLeaf             *datamodel.Leaf
	talkerFilteredLeaf, talkerFilteredRateLeaf *datamodel.Leaf
	badTagsLeaf, badTagsRateLeaf               *datamodel.Leaf
	talkersLeaf                               *datamodel.Leaf
	talkersSeen                               map[nmea0183.Talker]struct{}
}

// NewLineSource creates a LineSource reading from source, dropping any line whose talker is in
// filteredTalkers, with its stats leaves wired under parent.
func NewLineSource(log logging.Logger, source io.Reader, filteredTalkers []nmea0183.Talker,
	tree *datamodel.Tree, parent *datamodel.Node) *LineSource {
	filtered := make(map[nmea0183.Talker]struct{}, len(filteredTalkers))
	for _, t := range filteredTalkers {
		filtered[t] = struct{}{}
	}

	node := tree.NewNode("nmea", parent)
	ls := &LineSource{
		log:             log,
		reader:          nmea0183.NewLineReader(log, source),
		filteredTalkers: filtered,
		talkersSeen:     make(map[nmea0183.Talker]struct{}),
	}
	ls.messagesLeaf, ls.messageRateLeaf = countRateLeaves(tree, node, "messages")
	ls.talkerFilteredLeaf, ls.talkerFilteredRateLeaf = countRateLeaves(tree, node, "talkerFilteredMessages")
	ls.badTagsLeaf, ls.badTagsRateLeaf = countRateLeaves(tree, node, "badTagMessages")
	ls.talkersLeaf = tree.NewLeaf("talkers", node, datamodel.KindString)
	return ls
}

// AddHandler registers h to be called for every line this LineSource accepts.
func (ls *LineSource) AddHandler(h LineHandler) {
	ls.handlers = append(ls.handlers, h)
}

// Run reads and dispatches lines until ctx is cancelled or the underlying source fails.
func (ls *LineSource) Run(ctx context.Context) error {
	for {
		line, err := ls.reader.ReadLine(ctx)
		if err != nil {
			return err
		}
		ls.handleLine(line)
	}
}

func (ls *LineSource) handleLine(line *nmea0183.Line) {
	raw := wireLine(line)

	body := []byte(line.String())
	sentence, err := nmea0183.ParseSentence(body, line.IsEncapsulatedData())
	if err != nil {
		ls.badTags.Increment()
		ls.log.Warnf("discarding NMEA line with bad tag: %s", err)
		return
	}

	if !sentence.Proprietary {
		if _, filtered := ls.filteredTalkers[sentence.Talker]; filtered {
			ls.talkerFiltered.Increment()
			return
		}
		ls.noteTalker(sentence.Talker)
	}

	ls.messages.Increment()
	for _, h := range ls.handlers {
		h.HandleLine(sentence, raw)
	}
}

func (ls *LineSource) noteTalker(talker nmea0183.Talker) {
	if _, seen := ls.talkersSeen[talker]; seen {
		return
	}
	ls.talkersSeen[talker] = struct{}{}

	codes := make([]string, 0, len(ls.talkersSeen))
	for t := range ls.talkersSeen {
		codes = append(codes, t.String())
	}
	sort.Strings(codes)
	ls.talkersLeaf.SetString(strings.Join(codes, ","))
}

// ExportStats implements stats.Holder.
func (ls *LineSource) ExportStats(elapsed time.Duration) {
	ls.messages.Update(ls.messagesLeaf, ls.messageRateLeaf, elapsed)
	ls.talkerFiltered.Update(ls.talkerFilteredLeaf, ls.talkerFilteredRateLeaf, elapsed)
	ls.badTags.Update(ls.badTagsLeaf, ls.badTagsRateLeaf, elapsed)
}

// wireLine reconstructs the wire-ready bytes ("$..."/"!..." through the trailing CRLF) of a
// Line that has already had SanityCheck strip its lead-in and checksum, recomputing the
// checksum from the stripped body — the same recomputation the boundary-behavior invariant in
// §8 requires of any accepted line.
func wireLine(line *nmea0183.Line) []byte {
	lead := byte('$')
	if line.IsEncapsulatedData() {
		lead = '!'
	}
	body := nmea0183.AppendChecksum([]byte(line.String()))
	out := make([]byte, 0, len(body)+3)
	out = append(out, lead)
	out = append(out, body...)
	out = append(out, '\r', '\n')
	return out
}
