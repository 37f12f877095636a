package syntax

import "fmt"

// WarningKind identifies a recoverable pattern defect.
type WarningKind uint8

const (
	// WarnNone means no warning.
	WarnNone WarningKind = iota
	// WarnUnmatchedClose is a ')' without an open group.
	WarnUnmatchedClose
	// WarnUnclosedGroup is a '(' never closed; a ')' is inserted.
	WarnUnclosedGroup
	// WarnUnclosedBracket is a '[' never closed.
	WarnUnclosedBracket
	// WarnEmptyAlternationLeft is a '|' with nothing on its left.
	WarnEmptyAlternationLeft
	// WarnEmptyAlternationRight is a '|' with nothing on its right.
	WarnEmptyAlternationRight
	// WarnEmptyQuantifierOperand is a quantifier with nothing to repeat.
	WarnEmptyQuantifierOperand
	// WarnRedundantQuantifier is a quantifier directly after another one.
	WarnRedundantQuantifier
	// WarnEmptyGroup is a group with nothing inside.
	WarnEmptyGroup
	// WarnEmptyUnclosedGroup is an unclosed group with nothing inside.
	WarnEmptyUnclosedGroup
	// WarnTrailingBackslash is a '\' at the end of the pattern.
	WarnTrailingBackslash
)

var warningNames = [...]string{
	WarnNone:                   "none",
	WarnUnmatchedClose:         "unmatched-close",
	WarnUnclosedGroup:          "unclosed-group",
	WarnUnclosedBracket:        "unclosed-bracket",
	WarnEmptyAlternationLeft:   "empty-alternation-operand-left",
	WarnEmptyAlternationRight:  "empty-alternation-operand-right",
	WarnEmptyQuantifierOperand: "empty-quantifier-operand",
	WarnRedundantQuantifier:    "redundant-quantifier",
	WarnEmptyGroup:             "empty-group",
	WarnEmptyUnclosedGroup:     "empty-unclosed-group",
	WarnTrailingBackslash:      "trailing-backslash",
}

// String returns the kebab-case name of the warning kind.
func (k WarningKind) String() string {
	if int(k) < len(warningNames) {
		return warningNames[k]
	}
	return fmt.Sprintf("WarningKind(%d)", k)
}

// FixAction is the edit a Fix performs.
type FixAction uint8

const (
	// FixRemove deletes Text at the warning position.
	FixRemove FixAction = iota
	// FixInsert inserts Text at the warning position.
	FixInsert
	// FixReplace replaces the construct at the warning position with Text.
	FixReplace
)

// String returns the action name.
func (a FixAction) String() string {
	switch a {
	case FixRemove:
		return "remove"
	case FixInsert:
		return "insert"
	case FixReplace:
		return "replace"
	}
	return fmt.Sprintf("FixAction(%d)", a)
}

// Fix is a suggested edit that resolves a warning.
type Fix struct {
	Action FixAction
	Text   string
}

// Warning describes a defect found and repaired while parsing.
type Warning struct {
	Kind WarningKind
	// Position is the byte offset the warning and its fix refer to.
	Position int
	// Index is the affected lexeme, or -1 when the warning refers to a
	// position past the last lexeme.
	Index   int
	Message string
	Fix     Fix
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	return fmt.Sprintf("%d: %s: %s (%s %q)", w.Position, w.Kind, w.Message, w.Fix.Action, w.Fix.Text)
}
