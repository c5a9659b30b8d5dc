package bridge

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Op identifies one text-edit operation carried by the wire protocol.
type Op int

const (
	OpPreview Op = iota // show/clear the preedit preview
	OpCommit            // clear preview, then commit text
	OpDelete            // delete N characters before the cursor
	OpReplace           // delete N characters, then commit text
)

func (o Op) String() string {
	switch o {
	case OpPreview:
		return "preedit"
	case OpCommit:
		return "commit"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	}
	return "unknown"
}

// Command is one parsed wire-protocol line.
type Command struct {
	Op    Op
	Text  string
	Count int
}

// Parse decodes a single protocol line:
//
//	preedit:<text>
//	commit:<text>
//	delete:<N>
//	replace:<N>:<text>
//
// The protocol is best effort — malformed lines return ok=false and are
// dropped by the caller without any reply to the sender. Undecodable bytes
// are replaced, never rejected. Payload text is taken verbatim: whitespace
// is significant there, commits carry a trailing space as the utterance
// separator.
func Parse(line string) (Command, bool) {
	line = strings.ToValidUTF8(line, string(utf8.RuneError))
	line = strings.TrimRight(line, "\r\n")

	tag, payload, found := strings.Cut(line, ":")
	if !found {
		return Command{}, false
	}

	switch strings.TrimSpace(tag) {
	case "preedit":
		return Command{Op: OpPreview, Text: payload}, true
	case "commit":
		return Command{Op: OpCommit, Text: payload}, true
	case "delete":
		n, err := strconv.Atoi(strings.TrimSpace(payload))
		if err != nil {
			return Command{}, false
		}
		return Command{Op: OpDelete, Count: n}, true
	case "replace":
		countField, text, found := strings.Cut(payload, ":")
		if !found {
			return Command{}, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(countField))
		if err != nil {
			return Command{}, false
		}
		return Command{Op: OpReplace, Count: n, Text: text}, true
	}
	return Command{}, false
}
