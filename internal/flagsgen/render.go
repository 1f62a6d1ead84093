package flagsgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/i18n"
)

// Document is everything that ends up in one generated TypeScript file.
type Document struct {
	BaseName   string
	HeaderPath string
	Date       time.Time
	Languages  i18n.Languages
	Entries    []i18n.Entry
	Tree       []TopicNode
}

func indent(level int) string {
	return strings.Repeat(" ", level)
}

// Render writes the TypeScript module: a header comment, the
// <base>Translations record and the <base>Flags array.
func Render(doc Document) string {
	var w strings.Builder

	w.WriteString("/*\n")
	fmt.Fprintf(&w, "%s%s\n\n", indent(4), doc.HeaderPath)
	fmt.Fprintf(&w, "%s%s, Auto-generated\n", indent(4), doc.Date.Format(time.DateOnly))
	w.WriteString("*/\n\n")

	writeTranslations(&w, doc)
	w.WriteString("\n\n")
	writeFlags(&w, doc)

	return w.String()
}

func writeTranslations(w *strings.Builder, doc Document) {
	union := make([]string, len(doc.Languages))
	for i, l := range doc.Languages {
		union[i] = tsString(l)
	}
	fmt.Fprintf(w, "export const %sTranslations: Record<string, Record<%s, string>> = {\n",
		doc.BaseName, strings.Join(union, " | "))
	for _, e := range doc.Entries {
		fmt.Fprintf(w, "%s%s: {\n", indent(4), tsKey(e.Key))
		for _, l := range doc.Languages {
			fmt.Fprintf(w, "%s%s: %s,\n", indent(8), l, tsString(e.Translations.Get(l)))
		}
		fmt.Fprintf(w, "%s},\n", indent(4))
	}
	w.WriteString("}")
}

func writeFlags(w *strings.Builder, doc Document) {
	fmt.Fprintf(w, "export const %sFlags = [\n", doc.BaseName)
	for _, t := range doc.Tree {
		fmt.Fprintf(w, "%s{\n", indent(4))
		fmt.Fprintf(w, "%stopic: %d,\n", indent(8), t.ID)
		fmt.Fprintf(w, "%stopic_name: %s,\n", indent(8), tsString(t.Key))
		fmt.Fprintf(w, "%sflags: [\n", indent(8))
		for _, f := range t.Flags {
			fmt.Fprintf(w, "%s{ id: %d, name: %s },\n", indent(12), f.ID, tsString(f.Key))
		}
		fmt.Fprintf(w, "%s],\n", indent(8))
		fmt.Fprintf(w, "%s},\n", indent(4))
	}
	w.WriteString("]")
}

// tsString quotes s as a single-quoted TypeScript string literal.
func tsString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

// tsKey returns key unquoted when it is a plain identifier, quoted otherwise.
func tsKey(key string) string {
	if isTSIdentifier(key) {
		return key
	}
	return tsString(key)
}

func isTSIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
