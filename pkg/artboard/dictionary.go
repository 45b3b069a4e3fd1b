package artboard

import (
	"fmt"
	"sort"

	"github.com/user/charts-go/internal/host"
)

// EntryKind is the stored type of a dictionary entry.
type EntryKind int

const (
	IntegerEntry EntryKind = iota + 1
	BooleanEntry
	RealEntry
	StringEntry
)

func (k EntryKind) String() string {
	switch k {
	case IntegerEntry:
		return "integer"
	case BooleanEntry:
		return "boolean"
	case RealEntry:
		return "real"
	case StringEntry:
		return "string"
	}
	return "invalid"
}

// Entry is one typed value.
type Entry struct {
	Kind EntryKind
	Int  int32
	Bool bool
	Real float64
	Str  string
}

// Value returns the entry as an untyped Go value.
func (e Entry) Value() any {
	switch e.Kind {
	case IntegerEntry:
		return e.Int
	case BooleanEntry:
		return e.Bool
	case RealEntry:
		return e.Real
	case StringEntry:
		return e.Str
	}
	return nil
}

// Dict is a typed key/value store attached to a node.
type Dict struct {
	Entries map[string]Entry
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{Entries: make(map[string]Entry)}
}

// Key resolves a key name. Keys are plain strings in this host.
func (d *Dict) Key(name string) host.DictKey { return host.DictKey(name) }

// Has reports whether the key has an entry.
func (d *Dict) Has(key host.DictKey) bool {
	_, ok := d.Entries[string(key)]
	return ok
}

// Delete removes the key's entry if present.
func (d *Dict) Delete(key host.DictKey) { delete(d.Entries, string(key)) }

// Keys returns the entry names in sorted order.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Dict) get(key host.DictKey, kind EntryKind) (Entry, error) {
	e, ok := d.Entries[string(key)]
	if !ok {
		return Entry{}, fmt.Errorf("%q: %w", key, host.ErrNoSuchKey)
	}
	if e.Kind != kind {
		return Entry{}, fmt.Errorf("%q is %s, want %s: %w", key, e.Kind, kind, host.ErrWrongType)
	}
	return e, nil
}

func (d *Dict) SetInteger(key host.DictKey, v int32) error {
	d.Entries[string(key)] = Entry{Kind: IntegerEntry, Int: v}
	return nil
}

func (d *Dict) Integer(key host.DictKey) (int32, error) {
	e, err := d.get(key, IntegerEntry)
	return e.Int, err
}

func (d *Dict) SetBoolean(key host.DictKey, v bool) error {
	d.Entries[string(key)] = Entry{Kind: BooleanEntry, Bool: v}
	return nil
}

func (d *Dict) Boolean(key host.DictKey) (bool, error) {
	e, err := d.get(key, BooleanEntry)
	return e.Bool, err
}

func (d *Dict) SetReal(key host.DictKey, v float64) error {
	d.Entries[string(key)] = Entry{Kind: RealEntry, Real: v}
	return nil
}

func (d *Dict) Real(key host.DictKey) (float64, error) {
	e, err := d.get(key, RealEntry)
	return e.Real, err
}

func (d *Dict) SetString(key host.DictKey, v string) error {
	d.Entries[string(key)] = Entry{Kind: StringEntry, Str: v}
	return nil
}

func (d *Dict) String(key host.DictKey) (string, error) {
	e, err := d.get(key, StringEntry)
	return e.Str, err
}

var _ host.Dictionary = (*Dict)(nil)
