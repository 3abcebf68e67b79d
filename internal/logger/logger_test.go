package logger

import (
	"testing"
)

// The "test" package depends on this one, so it can't be used here
func assertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("\nobserved: %v\nexpected: %v", observed, expected)
	}
}

func TestMsgString(t *testing.T) {
	source := Source{PrettyPath: "src/index.js", Contents: "let x = y;\nfoo();"}
	options := OutputOptions{IncludeSource: true}
	terminal := TerminalInfo{}

	msg := Msg{Kind: Error, Text: "Could not find y", Location: LocationOrNil(&source, Range{Loc: Loc{Start: 8}, Len: 1})}
	assertEqual(t, msg.String(options, terminal), "src/index.js:1:8: error: Could not find y\nlet x = y;\n        ^\n")

	msg = Msg{Kind: Warning, Text: "Call", Location: LocationOrNil(&source, Range{Loc: Loc{Start: 11}, Len: 5}), Bundle: "main"}
	assertEqual(t, msg.String(options, terminal), "src/index.js:2:0: warning: [main] Call\nfoo();\n~~~~~\n")
	assertEqual(t, msg.String(OutputOptions{}, terminal), "src/index.js: warning: [main] Call\n")

	msg = Msg{Kind: Error, Text: "No location"}
	assertEqual(t, msg.String(options, terminal), "error: No location\n")
}

func TestMsgStringTabs(t *testing.T) {
	source := Source{PrettyPath: "a.js", Contents: "\tfoo;"}
	msg := Msg{Kind: Error, Text: "Tab", Location: LocationOrNil(&source, Range{Loc: Loc{Start: 1}, Len: 3})}
	assertEqual(t, msg.String(OutputOptions{IncludeSource: true}, TerminalInfo{}), "a.js:1:1: error: Tab\n  foo;\n  ~~~\n")
}

func TestComputeLineAndColumn(t *testing.T) {
	line, column, lineStart, lineEnd := computeLineAndColumn("a\nbc\r\nd", 6)
	assertEqual(t, line, 2)
	assertEqual(t, column, 0)
	assertEqual(t, lineStart, 6)
	assertEqual(t, lineEnd, 7)

	line, column, _, lineEnd = computeLineAndColumn("abc", 10)
	assertEqual(t, line, 0)
	assertEqual(t, column, 3)
	assertEqual(t, lineEnd, 3)
}

func TestDeferLog(t *testing.T) {
	log := NewDeferLog()
	assertEqual(t, log.HasErrors(), false)

	log.AddMsg(Msg{Kind: Warning, Text: "b", Bundle: "shared"})
	assertEqual(t, log.HasErrors(), false)

	main := log.ForBundle("main")
	main.AddMsg(Msg{Kind: Error, Text: "a"})
	main.AddMsg(Msg{Kind: Error, Text: "c", Bundle: "other"})
	assertEqual(t, log.HasErrors(), true)

	msgs := log.Done()
	assertEqual(t, len(msgs), 3)
	assertEqual(t, msgs[0].Bundle+":"+msgs[0].Text, "main:a")
	assertEqual(t, msgs[1].Bundle+":"+msgs[1].Text, "other:c")
	assertEqual(t, msgs[2].Bundle+":"+msgs[2].Text, "shared:b")
}

func TestErrorAndWarningSummary(t *testing.T) {
	assertEqual(t, errorAndWarningSummary(1, 0), "1 error")
	assertEqual(t, errorAndWarningSummary(0, 2), "2 warnings")
	assertEqual(t, errorAndWarningSummary(3, 1), "1 warning and 3 errors")
}
