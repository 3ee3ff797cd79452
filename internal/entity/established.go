package entity

// Established is the set of canonical entity keys known in a traversal context.
type Established map[string]struct{}

func NewEstablished(keys ...string) Established {
	e := make(Established, len(keys))
	for _, k := range keys {
		e.Add(k)
	}
	return e
}

func (e Established) Add(key string) {
	if key != "" {
		e[key] = struct{}{}
	}
}

func (e Established) Has(key string) bool {
	_, ok := e[key]
	return ok
}

func (e Established) Len() int {
	return len(e)
}

// Clone copies the set; a nil receiver yields an empty set.
func (e Established) Clone() Established {
	out := make(Established, len(e))
	for k := range e {
		out[k] = struct{}{}
	}
	return out
}
