package automaton

import "github.com/coregx/dscan/expr"

// NotifyFunc is invoked exactly once per state, in creation order, at the
// moment a state's id is assigned — before its transitions are filled in.
// Consumers (the ctxt package's state→pattern index builder) must treat
// the callback as receiving only identity and the source vector, never as
// a cue to inspect transitions — those are not filled in yet.
type NotifyFunc func(state *State, source expr.Vector)

// Compiler explores an expr.Vector's reachable state space via an
// explicit worklist and assigns each unique vector an integer state id.
type Compiler struct {
	notify NotifyFunc
}

// NewCompiler creates a Compiler. notify may be nil.
func NewCompiler(notify NotifyFunc) *Compiler {
	return &Compiler{notify: notify}
}

// Compile explores initial's reachable vector space and returns the
// resulting Automaton. Because expr.Store's smart constructors enforce the
// normalization law, structurally-equivalent vectors hash-cons to the same
// key, so the explored state space is always finite for any vector built
// from a single Store.
func (c *Compiler) Compile(initial expr.Vector) *Automaton {
	index := make(map[string]StateID)
	var states []*State
	var vectors []expr.Vector

	start := c.resolve(initial, index, &states, &vectors)

	for next := StateID(0); int(next) < len(states); next++ {
		vec := vectors[next]
		st := states[next]
		dm := vec.DerivationMap()
		st.transitions = make([]Transition, 0, len(dm.Classes))
		for _, cl := range dm.Classes {
			target := c.resolve(cl.Successor, index, &states, &vectors)
			st.transitions = append(st.transitions, Transition{Chars: cl.Chars, Next: target})
		}
		st.def = c.resolve(dm.Default, index, &states, &vectors)
	}

	return &Automaton{states: states, start: start}
}

// resolve returns the id for vector v, creating and notifying a new state
// if v has not been seen before. The worklist itself is implicit: new
// states are appended to *states, and the Compile loop above keeps
// iterating over the growing slice until every entry — including ones
// created partway through — has had its transitions filled.
func (c *Compiler) resolve(v expr.Vector, index map[string]StateID, states *[]*State, vectors *[]expr.Vector) StateID {
	key := v.Key()
	if id, ok := index[key]; ok {
		return id
	}
	id := uint32ID(len(*states))
	st := &State{id: id, accepting: v.Nullable(), final: v.Final()}
	*states = append(*states, st)
	*vectors = append(*vectors, v)
	index[key] = id
	if c.notify != nil {
		c.notify(st, v)
	}
	return id
}
