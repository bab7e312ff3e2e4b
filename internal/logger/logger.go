// Package logger collects diagnostics produced while resolving and
// rewriting the module graph. Diagnostics are non-fatal per §7 of the
// design: a bad node gets a message and is left unrewritten, and the
// pass moves on so one broken module can surface more than one issue.
package logger

import (
	"fmt"
	"sort"
	"strings"
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
)

func (k MsgKind) String() string {
	if k == Warning {
		return "warning"
	}
	return "error"
}

// MsgID mirrors the diagnostic taxonomy in spec §6. The string form is
// the external contract; callers match on it, so it must never change
// once shipped.
type MsgID string

const (
	MsgNamespaceAssignment    MsgID = "ES6_MODULE_NAMESPACE_OBJECT_ASSIGNEMNT"
	MsgNamespaceNonGetProp    MsgID = "ES6_MODULE_NAMESPACE_OBJECT_NON_GETPROP"
	MsgImportedBindingAssign  MsgID = "ES6_IMPORTED_BINDING_ASSIGNMENT"
	MsgRequireMustBeConst     MsgID = "LHS_OF_GOOG_REQUIRE_MUST_BE_CONST"
	MsgUselessUseStrict       MsgID = "USELESS_USE_STRICT_DIRECTIVE"
	MsgDuplicateImportedNames MsgID = "ES6_DUPLICATED_IMPORTED_BOUND_NAMES"
	MsgDuplicateExportNames   MsgID = "ES6_DUPLICATED_EXPORT_NAMES"
	MsgResolveExportFailure   MsgID = "ES6_RESOLVE_EXPORT_FAILURE"
	MsgExportedBindingMissing MsgID = "ES6_EXPORTED_BINDING_NOT_DECLARED"
	MsgLoadError              MsgID = "LOAD_ERROR"
)

type Loc struct {
	// Byte offset into Source.Contents, or -1 if unknown.
	Start int32
}

type Source struct {
	Index        uint32
	AbsPath      string
	PrettyPath   string
	Contents     string
	IdentifierName string
}

// TextForLoc produces a 1-based line, 0-based column, and the text of
// that line, matching esbuild's MsgLocation shape.
func (s *Source) TextForLoc(loc Loc) (line int, column int, lineText string) {
	if loc.Start < 0 || int(loc.Start) > len(s.Contents) {
		return 0, 0, ""
	}
	line = 1
	lineStart := 0
	for i := 0; i < int(loc.Start); i++ {
		if s.Contents[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	column = int(loc.Start) - lineStart
	lineEnd := strings.IndexByte(s.Contents[lineStart:], '\n')
	if lineEnd == -1 {
		lineText = s.Contents[lineStart:]
	} else {
		lineText = s.Contents[lineStart : lineStart+lineEnd]
	}
	return
}

type MsgLocation struct {
	File     string
	Line     int
	Column   int
	LineText string
}

type Msg struct {
	ID       MsgID
	Kind     MsgKind
	Text     string
	Location *MsgLocation
}

func (m Msg) String() string {
	var b strings.Builder
	if m.Location != nil {
		fmt.Fprintf(&b, "%s:%d:%d: ", m.Location.File, m.Location.Line, m.Location.Column)
	}
	fmt.Fprintf(&b, "%s: %s [%s]", m.Kind, m.Text, m.ID)
	return b.String()
}

// Log is the diagnostic sink threaded through the parser pass, the
// registry, and the rewriter. It never aborts the pass that wrote to
// it -- only the caller decides what HasErrors() means for exit status.
type Log struct {
	msgs []Msg
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) AddError(src *Source, loc Loc, id MsgID, text string) {
	l.add(src, loc, Error, id, text)
}

func (l *Log) AddWarning(src *Source, loc Loc, id MsgID, text string) {
	l.add(src, loc, Warning, id, text)
}

func (l *Log) add(src *Source, loc Loc, kind MsgKind, id MsgID, text string) {
	var location *MsgLocation
	if src != nil {
		line, column, lineText := src.TextForLoc(loc)
		location = &MsgLocation{File: src.PrettyPath, Line: line, Column: column, LineText: lineText}
	}
	l.msgs = append(l.msgs, Msg{ID: id, Kind: kind, Text: text, Location: location})
}

func (l *Log) HasErrors() bool {
	for _, m := range l.msgs {
		if m.Kind == Error {
			return true
		}
	}
	return false
}

func (l *Log) Msgs() []Msg {
	return l.msgs
}

// SortedMsgs returns messages ordered by file then line, for stable
// output across runs (module registration order depends on map
// iteration in a couple of places, so callers that print diagnostics
// should use this instead of Msgs()).
func (l *Log) SortedMsgs() []Msg {
	out := make([]Msg, len(l.msgs))
	copy(out, l.msgs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a == nil || b == nil {
			return b != nil
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	return out
}
