package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/i18n"
)

func testOptions() Options {
	return Options{
		LocaleDir:     "/app/src/i18n",
		SourceDir:     "/app/src",
		LocalePattern: `\.ts$`,
		SourcePattern: `\.(ts|vue)$`,
		Function:      "t",
		Languages:     i18n.Languages{"de", "en", "da"},
		Ignore:        []string{"node_modules"},
	}
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for p, content := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0644))
	}
}

func TestAuditMissingAndUnused(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/app/src/i18n/uranus-i18n-standard.ts": `greeting: { en: 'hi' }`,
		"/app/src/views/Home.vue":               `<span>{{ t('greeting') }}</span> {{ t('farewell') }}`,
	})

	a, err := New(fs, testOptions())
	require.NoError(t, err)
	rep := a.Run().Report()

	assert.Equal(t, map[string]map[string]string{
		"en": {"farewell": ""},
		"de": {"farewell": ""},
		"da": {"farewell": ""},
	}, rep.MissingTranslations)
	assert.Equal(t, []string{}, rep.UnusedTranslations)
	assert.Equal(t, []string{"/app/src/i18n/uranus-i18n-standard.ts"}, rep.ScannedLocaleFiles)
	assert.Equal(t, []string{"/app/src/views/Home.vue"}, rep.ScannedCodeFiles)
	assert.Equal(t, 3, rep.MissingCount())
}

func TestAuditUnusedKeysAndFileLists(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/app/src/i18n/a.ts":             "save: { en: 'Save' }\ncancel: { en: 'Cancel' }",
		"/app/src/i18n/b.ts":             "zebra: { en: 'Zebra' }",
		"/app/src/i18n/empty.ts":         "export {}",
		"/app/src/i18n/notes.md":         "ignored: { en: 'x' }",
		"/app/src/main.ts":               "import App from './App.vue'",
		"/app/src/App.vue":               "t('save')",
		"/app/src/node_modules/x/y.ts":   "t('vendored')",
		"/app/src/components/Button.vue": "t(\"save\")",
	})

	a, err := New(fs, testOptions())
	require.NoError(t, err)
	res := a.Run()
	rep := res.Report()

	assert.Equal(t, []string{"/app/src/i18n/a.ts", "/app/src/i18n/b.ts"}, rep.ScannedLocaleFiles)
	assert.Equal(t, []string{"/app/src/App.vue", "/app/src/components/Button.vue"}, rep.ScannedCodeFiles)
	assert.Equal(t, []string{"cancel", "zebra"}, rep.UnusedTranslations)
	assert.Empty(t, res.Missing())
	for _, l := range []string{"de", "en", "da"} {
		assert.Contains(t, rep.MissingTranslations, l)
		assert.Empty(t, rep.MissingTranslations[l])
	}

	assert.Equal(t, []KeyReference{
		{File: "/app/src/App.vue", Line: 1},
		{File: "/app/src/components/Button.vue", Line: 1},
	}, res.Used["save"])
}

type unreadableFs struct {
	afero.Fs
	path string
}

func (u unreadableFs) Open(name string) (afero.File, error) {
	if name == u.path {
		return nil, &os.PathError{Op: "open", Path: name, Err: errors.New("permission denied")}
	}
	return u.Fs.Open(name)
}

func TestAuditSkipsUnreadableFiles(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFiles(t, base, map[string]string{
		"/app/src/i18n/a.ts": "save: { en: 'Save' }",
		"/app/src/Bad.vue":   "t('secret')",
		"/app/src/Good.vue":  "t('save')",
	})

	a, err := New(unreadableFs{Fs: base, path: "/app/src/Bad.vue"}, testOptions())
	require.NoError(t, err)
	res := a.Run()

	assert.Equal(t, []string{"/app/src/Good.vue"}, res.CodeFiles)
	assert.Empty(t, res.Missing())
}

func TestNewRejectsBadPatterns(t *testing.T) {
	opts := testOptions()
	opts.LocalePattern = "("
	_, err := New(afero.NewMemMapFs(), opts)
	require.Error(t, err)

	opts = testOptions()
	opts.Ignore = []string{"[unclosed"}
	_, err = New(afero.NewMemMapFs(), opts)
	require.Error(t, err)
}

func TestWriteReportJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	rep := Report{
		ScannedLocaleFiles:  []string{"src/i18n/a.ts"},
		ScannedCodeFiles:    []string{},
		MissingTranslations: map[string]map[string]string{"en": {"søg": ""}},
		UnusedTranslations:  []string{},
	}
	require.NoError(t, WriteReport(fs, "/repo/tools/report.json", rep))

	data, err := afero.ReadFile(fs, "/repo/tools/report.json")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"søg": ""`), "non-ASCII keys are written unescaped")
	assert.Contains(t, string(data), "\n  \"scanned_locale_files\": [\n")

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, rep, got)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []any{}, raw["unused_translations"])
}

func TestWriteReportYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	rep := Report{
		ScannedLocaleFiles:  []string{"a.ts"},
		ScannedCodeFiles:    []string{"b.vue"},
		MissingTranslations: map[string]map[string]string{"da": {"farewell": ""}},
		UnusedTranslations:  []string{"old"},
	}
	require.NoError(t, WriteReport(fs, "/out/report.yaml", rep))

	data, err := afero.ReadFile(fs, "/out/report.yaml")
	require.NoError(t, err)

	var got Report
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, rep, got)
}

func TestWriteReportDirectoryFailure(t *testing.T) {
	err := WriteReport(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out/report.json", Report{})
	require.Error(t, err)
}

func TestEncodeFormats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []string{"a"}, "yaml"))
	assert.Equal(t, "- a\n", buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, []string{"a"}, "json"))
	assert.Equal(t, "[\n  \"a\"\n]\n", buf.String())

	assert.Equal(t, "yaml", FormatFor("x.YML"))
	assert.Equal(t, "json", FormatFor("x.json"))
	assert.Equal(t, "json", FormatFor("x"))
}
