// Package script implements scenario scripts that compile a pattern, step
// it over inputs and check the results.
//
//	// Comments are allowed.
//	regex `a(b|c)*d`
//	expect warnings 0
//	input "xabcd"
//	run
//	expect matches "abcd"
package script

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type Script struct {
	Commands []*Command `parser:"@@*"`
}

type Command struct {
	Pos lexer.Position

	Regex  *string `parser:"  'regex' @(String|RawString)"`
	Input  *string `parser:"| 'input' @(String|RawString)"`
	Step   *Step   `parser:"| @@"`
	Run    bool    `parser:"| @'run'"`
	Fix    bool    `parser:"| @'fix'"`
	Expect *Expect `parser:"| 'expect' @@"`
}

type Step struct {
	Keyword string `parser:"@'step'"`
	Count   int    `parser:"@Int?"`
}

type Expect struct {
	What   string   `parser:"@('warnings'|'fixed'|'rpn'|'statuses'|'matches')"`
	Number *int     `parser:"@Int?"`
	Texts  []string `parser:"@(String|RawString)*"`
	Words  []string `parser:"@('starting'|'running'|'success'|'failure'|'end')*"`
}

// Raw strings keep backslashes as written, which is what patterns need.
var parser = participle.MustBuild[Script](
	participle.Unquote("String"),
	participle.Map(func(t lexer.Token) (lexer.Token, error) {
		t.Value = t.Value[1 : len(t.Value)-1]
		return t, nil
	}, "RawString"),
)

// Parse parses a script. filename is only used in positions.
func Parse(filename, src string) (*Script, error) {
	return parser.ParseString(filename, src)
}

// ParseReader parses a script from r.
func ParseReader(filename string, r io.Reader) (*Script, error) {
	return parser.Parse(filename, r)
}
