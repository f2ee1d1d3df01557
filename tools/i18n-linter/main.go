// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks that every key passed to i18n.T exists in the primary
// locale, that the other locales carry every primary key, and lists primary
// keys nothing refers to.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

var (
	callRe    = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	literalRe = regexp.MustCompile(`"([a-z]+\.[a-z_]+(?:\.[a-z_]+)*)"`)
)

// skipDirs are never scanned for key usage.
var skipDirs = map[string]struct{}{
	"tools":     {},
	"_examples": {},
	".git":      {},
	"testdata":  {},
}

// usage holds the keys found in source. Called keys come from i18n.T calls;
// referenced keys are string literals shaped like a key, such as the setup
// hints handed to the federated launchers.
type usage struct {
	called     map[string]struct{}
	referenced map[string]struct{}
}

func main() {
	os.Exit(run(os.Stdout, projectRoot, localesDir))
}

func run(out io.Writer, root, locales string) int {
	_, _ = fmt.Fprintln(out, "Running i18n linter...")

	used, err := findUsedKeys(root)
	if err != nil {
		_, _ = fmt.Fprintf(out, "error finding used keys: %v\n", err)
		return 1
	}
	primary, err := loadKeysFromLocale(filepath.Join(root, locales, primaryLocale))
	if err != nil {
		_, _ = fmt.Fprintf(out, "error loading primary locale %s: %v\n", primaryLocale, err)
		return 1
	}
	_, _ = fmt.Fprintf(out, "%d keys used in source, %d keys in %s.\n\n", len(used.called), len(primary), primaryLocale)

	failed := false

	_, _ = fmt.Fprintln(out, "--- Keys used in code but missing from the primary locale ---")
	missing := difference(used.called, primary)
	report(out, "Missing", missing)
	failed = failed || len(missing) > 0

	_, _ = fmt.Fprintln(out, "--- Keys in the primary locale that nothing refers to ---")
	var orphaned []string
	for _, k := range difference(primary, used.called) {
		if _, ok := used.referenced[k]; !ok {
			orphaned = append(orphaned, k)
		}
	}
	report(out, "Orphaned", orphaned)

	files, err := filepath.Glob(filepath.Join(root, locales, "*.yaml"))
	if err != nil {
		_, _ = fmt.Fprintf(out, "error finding locale files: %v\n", err)
		return 1
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		_, _ = fmt.Fprintf(out, "--- Checking %s ---\n", filepath.Base(file))
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			_, _ = fmt.Fprintf(out, "  error loading: %v\n", err)
			failed = true
			continue
		}
		untranslated := difference(primary, keys)
		report(out, "Untranslated", untranslated)
		failed = failed || len(untranslated) > 0
	}

	if failed {
		_, _ = fmt.Fprintln(out, "Found issues that need to be addressed.")
		return 1
	}
	if len(orphaned) > 0 {
		_, _ = fmt.Fprintln(out, "Found orphaned keys. Please consider removing them.")
		return 0
	}
	_, _ = fmt.Fprintln(out, "All translation files are consistent.")
	return 0
}

func report(out io.Writer, label string, keys []string) {
	if len(keys) == 0 {
		_, _ = fmt.Fprintln(out, "  none")
	}
	for _, k := range keys {
		_, _ = fmt.Fprintf(out, "  - %s: %s\n", label, k)
	}
	_, _ = fmt.Fprintln(out)
}

// difference returns the sorted keys of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// findUsedKeys scans all non-test .go files below root.
func findUsedKeys(root string) (usage, error) {
	u := usage{called: map[string]struct{}{}, referenced: map[string]struct{}{}}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if _, skip := skipDirs[info.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range callRe.FindAllStringSubmatch(string(content), -1) {
			u.called[m[1]] = struct{}{}
		}
		for _, m := range literalRe.FindAllStringSubmatch(string(content), -1) {
			u.referenced[m[1]] = struct{}{}
		}
		return nil
	})
	return u, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML turns nested maps into dot-separated keys. The locale files are
// flat, but nested sections are accepted too.
func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
