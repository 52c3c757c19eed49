package macro

// Set holds every macro definition of one instrument.
type Set struct {
	std [NumStandard]Definition
	op  [Operators][OperatorParams]Definition
}

// Lookup returns the definition slot for kind, or nil if kind has no slot.
func (s *Set) Lookup(kind Kind) *Definition {
	if s == nil {
		return nil
	}
	if kind < operatorBase {
		if int(kind) >= NumStandard {
			return nil
		}
		return &s.std[kind]
	}
	op, param, ok := kind.Operator()
	if !ok {
		return nil
	}
	return &s.op[op][param]
}

// Store maps instrument indices to their macro sets. A missing instrument
// behaves as an instrument with no macros.
type Store struct {
	sets map[int]*Set
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sets: make(map[int]*Set)}
}

// Put stores def in the slot named by def.Kind, creating the instrument's
// set on first use. It reports false when the kind has no slot.
func (s *Store) Put(ins int, def *Definition) bool {
	if !def.Kind.Valid() {
		return false
	}
	set := s.sets[ins]
	if set == nil {
		set = &Set{}
		s.sets[ins] = set
	}
	*set.Lookup(def.Kind) = *def
	return true
}

// Set returns the macros of instrument ins, or nil.
func (s *Store) Set(ins int) *Set {
	return s.sets[ins]
}

// Get returns one definition of instrument ins, or nil.
func (s *Store) Get(ins int, kind Kind) *Definition {
	return s.sets[ins].Lookup(kind)
}

// Clear drops every macro of instrument ins.
func (s *Store) Clear(ins int) {
	delete(s.sets, ins)
}

// ClearAll drops every instrument.
func (s *Store) ClearAll() {
	clear(s.sets)
}

// Len returns the number of instruments with macros.
func (s *Store) Len() int {
	return len(s.sets)
}
