package bridge

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"preedit:hello", Command{Op: OpPreview, Text: "hello"}},
		{"preedit:", Command{Op: OpPreview, Text: ""}},
		{"preedit:a:b", Command{Op: OpPreview, Text: "a:b"}},
		{"commit:Hello there!", Command{Op: OpCommit, Text: "Hello there!"}},
		{"commit:", Command{Op: OpCommit, Text: ""}},
		{"delete:5", Command{Op: OpDelete, Count: 5}},
		{"delete:0", Command{Op: OpDelete, Count: 0}},
		{"delete:-3", Command{Op: OpDelete, Count: -3}},
		{"replace:5:world", Command{Op: OpReplace, Count: 5, Text: "world"}},
		{"replace:0:world", Command{Op: OpReplace, Count: 0, Text: "world"}},
		{"replace:2:", Command{Op: OpReplace, Count: 2, Text: ""}},
		{"replace:2:a:b", Command{Op: OpReplace, Count: 2, Text: "a:b"}},
		{"  commit:spaced  ", Command{Op: OpCommit, Text: "spaced  "}},
		{"commit:hello there \r\n", Command{Op: OpCommit, Text: "hello there "}},
		{"preedit:  indented", Command{Op: OpPreview, Text: "  indented"}},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.line)
		if !ok {
			t.Errorf("Parse(%q) not ok", tt.line)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	lines := []string{
		"",
		"preedit",
		"commit",
		"delete",
		"delete:",
		"delete:five",
		"delete:1.5",
		"replace:5",
		"replace:x:text",
		"replace::text",
		"unknown:payload",
		"PREEDIT:case matters",
	}
	for _, line := range lines {
		if cmd, ok := Parse(line); ok {
			t.Errorf("Parse(%q) = %+v, want rejection", line, cmd)
		}
	}
}

func TestParseKeepsTrailingSeparator(t *testing.T) {
	// Producers append a space to committed utterances so consecutive
	// commits don't run together in the target document. The parser must
	// not eat that separator.
	cmd, ok := Parse("commit:hello there ")
	if !ok {
		t.Fatal("commit with trailing space was rejected")
	}
	if cmd.Text != "hello there " {
		t.Errorf("Text = %q, want %q", cmd.Text, "hello there ")
	}
}

func TestParseInvalidUTF8(t *testing.T) {
	// Undecodable bytes are replaced, never rejected.
	cmd, ok := Parse("commit:caf\xff")
	if !ok {
		t.Fatal("line with invalid UTF-8 was rejected")
	}
	if cmd.Op != OpCommit {
		t.Errorf("Op = %v, want OpCommit", cmd.Op)
	}
	if cmd.Text == "caf\xff" {
		t.Error("invalid byte survived parsing")
	}
}

func TestOpString(t *testing.T) {
	for op, want := range map[Op]string{
		OpPreview: "preedit",
		OpCommit:  "commit",
		OpDelete:  "delete",
		OpReplace: "replace",
		Op(99):    "unknown",
	} {
		if got := op.String(); got != want {
			t.Errorf("Op(%d).String() = %q, want %q", op, got, want)
		}
	}
}
