package flagsgen

import (
	"sort"

	"github.com/samber/lo"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/i18n"
)

// TopicRow is one language row of a topic table.
type TopicRow struct {
	TopicID int64   `db:"topic_id"`
	Lang    string  `db:"iso_639_1"`
	Name    *string `db:"name"`
	Key     *string `db:"key"`
}

// FlagRow is one language row of a flag table.
type FlagRow struct {
	FlagID  int64   `db:"flag"`
	Lang    string  `db:"iso_639_1"`
	Name    *string `db:"name"`
	TopicID int64   `db:"topic_id"`
	Key     *string `db:"key"`
}

// TopicNode is a topic in the generated flags array.
type TopicNode struct {
	ID    int64
	Key   string
	Flags []FlagNode
}

type FlagNode struct {
	ID  int64
	Key string
}

// GroupTopics folds language rows into one Topic per identifier. Names in
// languages outside langs are dropped; the row still counts for the key.
func GroupTopics(rows []TopicRow, langs i18n.Languages, minID int64) map[int64]*i18n.Topic {
	topics := make(map[int64]*i18n.Topic)
	for _, r := range rows {
		if r.TopicID < minID {
			continue
		}
		t, ok := topics[r.TopicID]
		if !ok {
			t = i18n.NewTopic(r.TopicID, langs)
			topics[r.TopicID] = t
		}
		if r.Key != nil {
			t.Key = *r.Key
		}
		if langs.Contains(r.Lang) {
			t.Translations.Merge(i18n.Translations{r.Lang: deref(r.Name)})
		}
	}
	return topics
}

// GroupFlags folds language rows into one Flag per identifier. The owning
// topic of the last row wins.
func GroupFlags(rows []FlagRow, langs i18n.Languages, minID int64) map[int64]*i18n.Flag {
	flags := make(map[int64]*i18n.Flag)
	for _, r := range rows {
		if r.FlagID < minID {
			continue
		}
		f, ok := flags[r.FlagID]
		if !ok {
			f = i18n.NewFlag(r.FlagID, langs)
			flags[r.FlagID] = f
		}
		if r.Key != nil {
			f.Key = *r.Key
		}
		f.TopicID = r.TopicID
		if langs.Contains(r.Lang) {
			f.Translations.Merge(i18n.Translations{r.Lang: deref(r.Name)})
		}
	}
	return flags
}

// BuildTable merges topic and flag names into one table keyed by canonical
// key. Flags are applied after topics, so a flag replaces a topic with the
// same key. Records without a key are left out.
func BuildTable(topics map[int64]*i18n.Topic, flags map[int64]*i18n.Flag) i18n.Table {
	tbl := make(i18n.Table, len(topics)+len(flags))
	for _, id := range sortedIDs(topics) {
		if t := topics[id]; t.Key != "" {
			tbl.Put(t.Key, t.Translations)
		}
	}
	for _, id := range sortedIDs(flags) {
		if f := flags[id]; f.Key != "" {
			tbl.Put(f.Key, f.Translations)
		}
	}
	return tbl
}

// BuildTree nests flags under their topics, both ordered by identifier.
// Flags whose topic is unknown are not part of the tree.
func BuildTree(topics map[int64]*i18n.Topic, flags map[int64]*i18n.Flag) []TopicNode {
	byTopic := lo.GroupBy(lo.Values(flags), func(f *i18n.Flag) int64 { return f.TopicID })

	tree := make([]TopicNode, 0, len(topics))
	for _, id := range sortedIDs(topics) {
		node := TopicNode{ID: id, Key: topics[id].Key, Flags: []FlagNode{}}
		members := byTopic[id]
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
		for _, f := range members {
			node.Flags = append(node.Flags, FlagNode{ID: f.ID, Key: f.Key})
		}
		tree = append(tree, node)
	}
	return tree
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := lo.Keys(m)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
