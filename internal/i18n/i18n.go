// Package i18n defines the translation records shared by the generator and
// the auditor: a fixed, ordered language set and per-language display names.
package i18n

import (
	"sort"

	"github.com/samber/lo"
)

// Languages is an ordered set of ISO 639-1 codes. Order is the order in
// which languages are emitted.
type Languages []string

// Contains reports whether code is part of the set.
func (l Languages) Contains(code string) bool {
	return lo.Contains(l, code)
}

// Translations maps a language code to a display name.
type Translations map[string]string

// NewTranslations returns a map with every language set to "".
func NewTranslations(langs Languages) Translations {
	t := make(Translations, len(langs))
	for _, l := range langs {
		t[l] = ""
	}
	return t
}

// Merge copies every entry of other into t. Later values win.
func (t Translations) Merge(other Translations) {
	for l, v := range other {
		t[l] = v
	}
}

// Get returns the name for lang, "" when absent.
func (t Translations) Get(lang string) string {
	return t[lang]
}

// Topic groups flags and carries its own display names.
type Topic struct {
	ID           int64
	Key          string
	Translations Translations
}

func NewTopic(id int64, langs Languages) *Topic {
	return &Topic{ID: id, Translations: NewTranslations(langs)}
}

// Flag belongs to the topic TopicID.
type Flag struct {
	ID           int64
	Key          string
	TopicID      int64
	Translations Translations
}

func NewFlag(id int64, langs Languages) *Flag {
	return &Flag{ID: id, Translations: NewTranslations(langs)}
}

// Entry is one row of the generated translation table.
type Entry struct {
	Key          string
	Translations Translations
}

// Table maps translation keys to their names. Keys are unique; inserting an
// existing key replaces it.
type Table map[string]Translations

// Put stores tr under key, replacing any previous entry.
func (t Table) Put(key string, tr Translations) {
	t[key] = tr
}

// Entries returns the table sorted by key.
func (t Table) Entries() []Entry {
	keys := lo.Keys(t)
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Translations: t[k]})
	}
	return out
}
