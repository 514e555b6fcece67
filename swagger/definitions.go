package swagger

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Anonymous model name prefixes.
const (
	modelPrefix = "Model"
	arrayPrefix = "Array"
)

// definitions is a registry of named models that are referenced by $ref.
// With reuse enabled, structurally equal models share one entry.
type definitions struct {
	ref   string
	reuse bool
	items *OrderedMap[*Schema]
	sigs  map[string]string // name -> signature
	bySig map[string]string // signature -> first name registered with it
}

func newDefinitions(ref string, reuse bool) *definitions {
	return &definitions{
		ref:   ref,
		reuse: reuse,
		items: NewOrderedMap[*Schema](),
		sigs:  make(map[string]string),
		bySig: make(map[string]string),
	}
}

// signature returns the canonical serialization of s used for structural
// comparison.
func signature(s *Schema) string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}

// nextName returns prefix followed by one more than the highest numeric
// suffix already registered under prefix.
func (d *definitions) nextName(prefix string) string {
	highest := 0
	for _, key := range d.items.Keys() {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > highest {
			highest = n
		}
	}
	return prefix + strconv.Itoa(highest+1)
}

// append registers s and returns the name it is stored under. An explicit
// name that is already taken by an identical schema returns that entry; a
// taken name with a different schema gets a numeric suffix. Anonymous
// schemas are named anonPrefix followed by a number.
func (d *definitions) append(name, anonPrefix string, s *Schema) string {
	sig := signature(s)

	if d.reuse {
		if existing, ok := d.bySig[sig]; ok {
			return existing
		}
	}

	switch {
	case name == "":
		name = d.nextName(anonPrefix)
	case d.items.Has(name):
		if d.sigs[name] == sig {
			return name
		}
		name = d.nextName(name)
	}

	d.store(name, sig, s)
	return name
}

// reserve claims a name for a schema that is still being built, so that
// cyclic references can point at it.
func (d *definitions) reserve(name, anonPrefix string) string {
	switch {
	case name == "":
		name = d.nextName(anonPrefix)
	case d.items.Has(name):
		name = d.nextName(name)
	}

	d.items.Set(name, nil)
	return name
}

// fill stores the schema of a reserved name.
func (d *definitions) fill(name string, s *Schema) {
	d.store(name, signature(s), s)
}

func (d *definitions) store(name, sig string, s *Schema) {
	d.items.Set(name, s)
	d.sigs[name] = sig
	if _, ok := d.bySig[sig]; !ok {
		d.bySig[sig] = name
	}
}

// truncate removes the entries registered after the first n and returns
// their names.
func (d *definitions) truncate(n int) []string {
	keys := d.items.Keys()
	if n >= len(keys) {
		return nil
	}

	removed := keys[n:]
	for _, name := range removed {
		d.items.Delete(name)
		if sig, ok := d.sigs[name]; ok && d.bySig[sig] == name {
			delete(d.bySig, sig)
		}
		delete(d.sigs, name)
	}
	return removed
}

func (d *definitions) has(name string) bool {
	return d.items.Has(name)
}

func (d *definitions) refTo(name string) *Schema {
	return &Schema{Ref: d.ref + name}
}

// result returns the registered models, or nil when there are none.
func (d *definitions) result() *OrderedMap[*Schema] {
	if d.items.Len() == 0 {
		return nil
	}
	return d.items
}
