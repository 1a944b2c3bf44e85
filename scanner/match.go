package scanner

import "github.com/coregx/dscan/pattern"

// Match is one pattern occurrence emitted by a Scanner.
type Match struct {
	ID      pattern.ID
	Name    string
	Source  string
	Pos     int
	Text    string
	Ignored bool
}
