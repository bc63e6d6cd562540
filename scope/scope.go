// Package scope implements lexical scopes as an arena of records addressed
// by handle.
//
// Each record holds the bindings of one scope and the handle of its
// enclosing scope. Records are reference counted: a record is created with
// one reference, holds a reference to its parent, and is returned to the
// free list once its count drops to zero. A closure keeps its defining scope
// alive by taking an extra reference with Retain. Scopes kept alive only by
// closures that are themselves unreachable are reclaimed by Collect.
package scope

import (
	"fmt"
	"sort"
)

// Handle addresses a scope record within an Arena.
type Handle int32

// None is the parent of a root scope.
const None Handle = -1

type record[V any] struct {
	vars   map[string]V
	parent Handle
	refs   int
}

// Arena owns every scope of one interpreter. It is not safe for concurrent
// use.
type Arena[V any] struct {
	records []record[V]
	free    []Handle
}

// NewArena returns an empty arena.
func NewArena[V any]() *Arena[V] {
	return &Arena[V]{}
}

// New allocates a scope enclosed by parent (None for a root scope) and
// returns its handle. The caller owns one reference to the new scope.
func (a *Arena[V]) New(parent Handle) Handle {
	if parent != None {
		a.Retain(parent)
	}
	rec := record[V]{vars: map[string]V{}, parent: parent, refs: 1}
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.records[h] = rec
		return h
	}
	a.records = append(a.records, rec)
	return Handle(len(a.records) - 1)
}

// Retain adds a reference to h.
func (a *Arena[V]) Retain(h Handle) {
	a.get(h).refs++
}

// Release drops a reference to h. A scope whose last reference is dropped
// is freed and releases its parent in turn.
func (a *Arena[V]) Release(h Handle) {
	for h != None {
		rec := a.get(h)
		rec.refs--
		if rec.refs > 0 {
			return
		}
		parent := rec.parent
		*rec = record[V]{parent: None}
		a.free = append(a.free, h)
		h = parent
	}
}

// Collect frees every scope that cannot be reached from roots and returns
// the number freed. A scope is reachable if it is a root, encloses a
// reachable scope, or is referenced by a value bound in a reachable scope;
// ref reports the scope a value refers to, or None.
//
// Reference counts of the surviving scopes are rebuilt from that graph, so
// Collect may only run while nothing outside the arena holds a handle
// other than the roots.
func (a *Arena[V]) Collect(ref func(V) Handle, roots ...Handle) int {
	marked := make([]bool, len(a.records))
	counts := make([]int, len(a.records))
	var stack []Handle
	visit := func(h Handle) {
		if h == None || a.records[h].refs <= 0 {
			return
		}
		counts[h]++
		if !marked[h] {
			marked[h] = true
			stack = append(stack, h)
		}
	}
	for _, h := range roots {
		a.get(h)
		visit(h)
	}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rec := &a.records[h]
		visit(rec.parent)
		for _, v := range rec.vars {
			visit(ref(v))
		}
	}

	freed := 0
	for i := range a.records {
		rec := &a.records[i]
		switch {
		case rec.refs <= 0:
		case marked[i]:
			rec.refs = counts[i]
		default:
			*rec = record[V]{parent: None}
			a.free = append(a.free, Handle(i))
			freed++
		}
	}
	return freed
}

// Define binds name in scope h, replacing any existing binding there.
func (a *Arena[V]) Define(h Handle, name string, value V) {
	a.get(h).vars[name] = value
}

// Get resolves name starting at h and walking outward to the root.
func (a *Arena[V]) Get(h Handle, name string) (V, bool) {
	for h != None {
		rec := a.get(h)
		if v, ok := rec.vars[name]; ok {
			return v, true
		}
		h = rec.parent
	}
	var zero V
	return zero, false
}

// Assign rebinds the innermost existing binding of name visible from h. It
// reports false if there is none.
func (a *Arena[V]) Assign(h Handle, name string, value V) bool {
	for h != None {
		rec := a.get(h)
		if _, ok := rec.vars[name]; ok {
			rec.vars[name] = value
			return true
		}
		h = rec.parent
	}
	return false
}

// Parent returns the enclosing scope of h.
func (a *Arena[V]) Parent(h Handle) Handle {
	return a.get(h).parent
}

// Names returns every name visible from h, sorted and without duplicates.
func (a *Arena[V]) Names(h Handle) []string {
	seen := map[string]bool{}
	var names []string
	for h != None {
		rec := a.get(h)
		for name := range rec.vars {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		h = rec.parent
	}
	sort.Strings(names)
	return names
}

// Len returns the number of live scopes.
func (a *Arena[V]) Len() int {
	return len(a.records) - len(a.free)
}

func (a *Arena[V]) get(h Handle) *record[V] {
	if h < 0 || int(h) >= len(a.records) || a.records[h].refs <= 0 {
		panic(fmt.Sprintf("scope: invalid handle %d", h))
	}
	return &a.records[h]
}
