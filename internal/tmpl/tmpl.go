package tmpl

import (
	"strconv"
	"strings"
)

// Vars holds the runtime values available to notification templates.
type Vars struct {
	Input    string
	Output   string
	Prefix   string
	Files    int
	Duration string
	Status   string // "ok" | "error"
	Error    string
}

// Expand replaces template placeholders in s with runtime values:
// {input}, {output}, {prefix}, {files}, {duration}, {error},
// {status} as-is and {Status} title-cased.
func Expand(s string, v Vars) string {
	r := strings.NewReplacer(
		"{input}", v.Input,
		"{output}", v.Output,
		"{prefix}", v.Prefix,
		"{files}", strconv.Itoa(v.Files),
		"{duration}", v.Duration,
		"{Status}", TitleCase(v.Status),
		"{status}", v.Status,
		"{error}", v.Error,
	)
	return r.Replace(s)
}

// TitleCase uppercases the first byte of s.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
