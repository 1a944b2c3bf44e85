// Package literal extracts literal byte runs from a compiled pattern's
// expression tree for use as a prefilter: a cheap substring search that
// narrows down candidate scan positions before the DFA itself runs.
package literal

// Literal is one concrete byte run that may appear in a match. Complete
// marks a run that by itself is sufficient evidence of a match; otherwise
// it is only a necessary substring (e.g. a prefix before a `.*`).
type Literal struct {
	Bytes    []byte
	Complete bool
}

func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

func (l Literal) Len() int { return len(l.Bytes) }

func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}
