// Package audit compares the translation keys declared in generated locale
// files with the keys the application looks up, and reports the difference
// in both directions.
package audit

import (
	"regexp"
	"sort"

	logging "github.com/ipfs/go-log/v2"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/i18n"
)

var log = logging.Logger("audit")

type Options struct {
	LocaleDir     string
	SourceDir     string
	LocalePattern string
	SourcePattern string
	// Function is the name of the translation lookup, usually "t".
	Function  string
	Languages i18n.Languages
	Ignore    []string
}

type Auditor struct {
	fs       afero.Fs
	opts     Options
	localeRe *regexp.Regexp
	sourceRe *regexp.Regexp
	callRe   *regexp.Regexp
	ignore   ignoreMatcher
}

func New(fs afero.Fs, opts Options) (*Auditor, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	localeRe, err := regexp.Compile(opts.LocalePattern)
	if err != nil {
		return nil, xerrors.Errorf("locale pattern: %w", err)
	}
	sourceRe, err := regexp.Compile(opts.SourcePattern)
	if err != nil {
		return nil, xerrors.Errorf("source pattern: %w", err)
	}
	ignore, err := compileIgnore(opts.Ignore)
	if err != nil {
		return nil, xerrors.Errorf("ignore pattern: %w", err)
	}
	if opts.Function == "" {
		opts.Function = "t"
	}
	return &Auditor{
		fs:       fs,
		opts:     opts,
		localeRe: localeRe,
		sourceRe: sourceRe,
		callRe:   callPattern(opts.Function),
		ignore:   ignore,
	}, nil
}

// Result holds the declared and used key sets of one run.
type Result struct {
	Languages   i18n.Languages
	Declared    map[string]bool
	Used        map[string][]KeyReference
	LocaleFiles []string
	CodeFiles   []string
}

// Run scans both trees. Files that cannot be read are logged and left out.
func (a *Auditor) Run() *Result {
	res := &Result{
		Languages: a.opts.Languages,
		Declared:  make(map[string]bool),
		Used:      make(map[string][]KeyReference),
	}

	for _, path := range scanFiles(a.fs, a.opts.LocaleDir, a.localeRe, a.ignore) {
		data, err := afero.ReadFile(a.fs, path)
		if err != nil {
			log.Warnw("failed to read locale file", "path", path, "error", err)
			continue
		}
		keys := extractLocaleKeys(string(data))
		if len(keys) == 0 {
			continue
		}
		res.LocaleFiles = append(res.LocaleFiles, path)
		for _, k := range keys {
			res.Declared[k] = true
		}
	}
	log.Infow("extracted keys from locale files", "keys", len(res.Declared), "files", len(res.LocaleFiles))

	for _, path := range scanFiles(a.fs, a.opts.SourceDir, a.sourceRe, a.ignore) {
		data, err := afero.ReadFile(a.fs, path)
		if err != nil {
			log.Warnw("failed to read source file", "path", path, "error", err)
			continue
		}
		calls := extractCalls(a.callRe, string(data))
		if len(calls) == 0 {
			continue
		}
		res.CodeFiles = append(res.CodeFiles, path)
		for key, lines := range calls {
			for _, l := range lines {
				res.Used[key] = append(res.Used[key], KeyReference{File: path, Line: l})
			}
		}
	}
	log.Infow("extracted keys from code", "keys", len(res.Used), "files", len(res.CodeFiles))

	return res
}

// Missing returns the used keys that no locale file declares, sorted.
func (r *Result) Missing() []string {
	missing, _ := lo.Difference(lo.Keys(r.Used), lo.Keys(r.Declared))
	sort.Strings(missing)
	return missing
}

// Unused returns the declared keys that no source file uses, sorted.
func (r *Result) Unused() []string {
	_, unused := lo.Difference(lo.Keys(r.Used), lo.Keys(r.Declared))
	sort.Strings(unused)
	return unused
}

// Patch maps every language to the missing keys with empty values.
func (r *Result) Patch() map[string]map[string]string {
	missing := r.Missing()
	patch := make(map[string]map[string]string, len(r.Languages))
	for _, l := range r.Languages {
		patch[l] = make(map[string]string, len(missing))
		for _, k := range missing {
			patch[l][k] = ""
		}
	}
	return patch
}

// Report is the document written by the audit command.
type Report struct {
	ScannedLocaleFiles  []string                     `json:"scanned_locale_files" yaml:"scanned_locale_files"`
	ScannedCodeFiles    []string                     `json:"scanned_code_files" yaml:"scanned_code_files"`
	MissingTranslations map[string]map[string]string `json:"missing_translations" yaml:"missing_translations"`
	UnusedTranslations  []string                     `json:"unused_translations" yaml:"unused_translations"`
}

func (r *Result) Report() Report {
	return Report{
		ScannedLocaleFiles:  nonNil(r.LocaleFiles),
		ScannedCodeFiles:    nonNil(r.CodeFiles),
		MissingTranslations: r.Patch(),
		UnusedTranslations:  nonNil(r.Unused()),
	}
}

// MissingCount is the number of blank patch entries, keys times languages.
func (rep Report) MissingCount() int {
	n := 0
	for _, keys := range rep.MissingTranslations {
		n += len(keys)
	}
	return n
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
