package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// runApp runs the CLI with args and returns what it printed.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"i18n-tools", "--log-level", "error"}, args...))
	return out.String(), err
}

// newRepo creates a web application tree and makes it the working directory.
func newRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["package.json"] = "{}"
	for p, content := range files {
		full := filepath.Join(dir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return dir
}

func TestGenerateFlagsArgumentCount(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"uranus.accessibility_flag", "uranus.accessibility_topic", "uranusI18nAccessibility"},
		{"a", "b", "c", "d", "e"},
	} {
		_, err := runApp(t, append([]string{"generate-flags"}, args...)...)
		require.Error(t, err)

		var exit cli.ExitCoder
		require.ErrorAs(t, err, &exit)
		assert.Equal(t, 1, exit.ExitCode())
		assert.Contains(t, err.Error(), "<flag_table> <topic_table> <base_name> <output_file_path>")
	}
}

func TestAuditCommand(t *testing.T) {
	dir := newRepo(t, map[string]string{
		"src/i18n/uranus-i18n-standard.ts": "greeting: { en: 'hi', de: 'hallo', da: 'hej' }\nobsolete: { en: 'old' }",
		"src/views/Home.vue":               "<p>{{ t('greeting') }}</p>\n<p>{{ t('farewell') }}</p>",
	})

	out, err := runApp(t, "audit")
	require.NoError(t, err)

	reportPath := filepath.Join(dir, "tools", "i18n_missing_patch.json")
	assert.Contains(t, out, "Analysis complete. JSON written to "+reportPath)
	assert.Contains(t, out, "Missing translations: 3\n")
	assert.Contains(t, out, "Unused translations: 1\n")
	assert.Contains(t, out, "Scanned 1 locale files\n")
	assert.Contains(t, out, "Scanned 1 code files\n")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var rep struct {
		ScannedLocaleFiles  []string                     `json:"scanned_locale_files"`
		ScannedCodeFiles    []string                     `json:"scanned_code_files"`
		MissingTranslations map[string]map[string]string `json:"missing_translations"`
		UnusedTranslations  []string                     `json:"unused_translations"`
	}
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, map[string]map[string]string{
		"en": {"farewell": ""},
		"de": {"farewell": ""},
		"da": {"farewell": ""},
	}, rep.MissingTranslations)
	assert.Equal(t, []string{"obsolete"}, rep.UnusedTranslations)
	require.Len(t, rep.ScannedCodeFiles, 1)
	assert.True(t, strings.HasSuffix(rep.ScannedCodeFiles[0], filepath.Join("src", "views", "Home.vue")))
}

func TestAuditCommandYAMLOutput(t *testing.T) {
	dir := newRepo(t, map[string]string{
		"src/i18n/a.ts": "save: { en: 'Save' }",
		"src/App.vue":   "t('save')",
	})

	out, err := runApp(t, "audit", "--output", "reports/i18n.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "YAML written to")

	data, err := os.ReadFile(filepath.Join(dir, "reports", "i18n.yaml"))
	require.NoError(t, err)
	var rep map[string]any
	require.NoError(t, yaml.Unmarshal(data, &rep))
	assert.Equal(t, []any{}, rep["unused_translations"])
}

func TestMissingCommand(t *testing.T) {
	newRepo(t, map[string]string{
		"src/i18n/a.ts": "save: { en: 'Save' }",
		"src/App.vue":   "t('save') t('cancel') t('apply')",
	})

	out, err := runApp(t, "missing")
	require.NoError(t, err)
	assert.Equal(t, "Found 2 missing keys:\n  apply\n  cancel\n", out)

	out, err = runApp(t, "missing", "--format", "yaml")
	require.NoError(t, err)
	var patch map[string]map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &patch))
	assert.Equal(t, map[string]string{"apply": "", "cancel": ""}, patch["da"])

	_, err = runApp(t, "missing", "--format", "xml")
	require.Error(t, err)
}

func TestUnusedAndReferencesCommands(t *testing.T) {
	newRepo(t, map[string]string{
		"src/i18n/a.ts": "save: { en: 'Save' }\nold: { en: 'Old' }",
		"src/App.vue":   "\nt('save')\nt('gone')",
	})

	out, err := runApp(t, "unused", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `["old"]`, out)

	out, err = runApp(t, "references")
	require.NoError(t, err)
	assert.Equal(t, "gone (missing):\n  src/App.vue:3\nsave:\n  src/App.vue:2\n", out)
}

func TestCheckCommand(t *testing.T) {
	newRepo(t, map[string]string{
		"src/i18n/a.ts": "save: { en: 'Save' }\nold: { en: 'Old' }",
		"src/App.vue":   "t('save')",
	})
	out, err := runApp(t, "check")
	require.NoError(t, err, "unused keys alone do not fail the check")
	assert.Contains(t, out, "All checks passed.")

	require.NoError(t, os.WriteFile("src/Other.vue", []byte("t('new_key')"), 0644))
	out, err = runApp(t, "check")
	require.Error(t, err)
	assert.Contains(t, out, "FAIL")
}

func TestCSVSQLCommand(t *testing.T) {
	dir := newRepo(t, map[string]string{
		"types.csv": "type_id,da,de,en\n5,Koncert,Konzert,Concert\n2001,Rock,Rock,Rock\n",
	})

	out, err := runApp(t, "csv-sql", "--table", "genre_type", filepath.Join(dir, "types.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "INSERT INTO uranus.genre_type (type_id, name, iso_639_1, modified_at, event_type_id) VALUES (2001, 'Rock', '"), l)
		assert.True(t, strings.HasSuffix(l, "', 2);"), l)
	}

	out, err = runApp(t, "csv-sql", "types.csv")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 6)

	_, err = runApp(t, "csv-sql", "--table", "genres", "types.csv")
	require.Error(t, err)

	_, err = runApp(t, "csv-sql", "does-not-exist.csv")
	require.Error(t, err)
}

func TestExplicitConfigMustExist(t *testing.T) {
	newRepo(t, map[string]string{})
	_, err := runApp(t, "--config", "missing.toml", "unused")
	require.Error(t, err)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	newRepo(t, map[string]string{
		"i18n-tools.toml":  "[audit]\nsource_dir = \"app\"\nlocale_dir = \"app/locales\"\n",
		"app/locales/a.ts": "save: { en: 'Save' }",
		"app/App.vue":      "t('save') t('more')",
	})
	out, err := runApp(t, "missing")
	require.NoError(t, err)
	assert.Equal(t, "Found 1 missing keys:\n  more\n", out)
}
