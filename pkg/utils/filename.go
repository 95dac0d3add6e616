package utils

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	pathSeparators = strings.NewReplacer("/", "-", "\\", "-")
)

// AnnotatedFileName builds the download name of an annotated invoice: the
// display label with whitespace runs replaced by underscores, between prefix
// and ".pdf"
func AnnotatedFileName(prefix, displayLabel string) string {
	return prefix + whitespaceRun.ReplaceAllString(displayLabel, "_") + ".pdf"
}

// SafeFileName makes a download name usable as a single path element on
// disk. Labels contain slashes ("3/8"), which would otherwise nest
// directories.
func SafeFileName(name string) string {
	name = pathSeparators.Replace(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" {
		return "_"
	}
	return name
}
