//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sqlexec

import (
	"regexp"
	"sort"
	"strings"
)

type regionKind int

const (
	regionCode regionKind = iota
	regionQuoted
	regionComment
)

// region is a byte range of a script with a single lexical kind.
type region struct {
	start, end int
	kind       regionKind
}

// lex splits a script into code, quoted (single, double and dollar
// quotes) and comment regions.
func lex(s string) []region {
	var out []region
	emit := func(start, end int, kind regionKind) {
		if end > start {
			out = append(out, region{start, end, kind})
		}
	}

	codeStart := 0
	i := 0
	for i < len(s) {
		var end int
		var kind regionKind
		switch {
		case strings.HasPrefix(s[i:], "--"):
			end, kind = indexFrom(s, i+2, "\n", 1), regionComment
		case strings.HasPrefix(s[i:], "/*"):
			end, kind = indexFrom(s, i+2, "*/", 2), regionComment
		case s[i] == '\'' || s[i] == '"':
			end, kind = closeQuote(s, i), regionQuoted
		case s[i] == '$':
			tag := dollarTag(s[i:])
			if tag == "" {
				i++
				continue
			}
			end, kind = indexFrom(s, i+len(tag), tag, len(tag)), regionQuoted
		default:
			i++
			continue
		}
		emit(codeStart, i, regionCode)
		emit(i, end, kind)
		i, codeStart = end, end
	}
	emit(codeStart, len(s), regionCode)
	return out
}

// indexFrom returns the offset just past the first sep at or after from,
// or len(s) if there is none.
func indexFrom(s string, from int, sep string, width int) int {
	if from > len(s) {
		return len(s)
	}
	if j := strings.Index(s[from:], sep); j >= 0 {
		return from + j + width
	}
	return len(s)
}

// closeQuote returns the offset just past the quote opened at i. A doubled
// quote character is an escaped quote.
func closeQuote(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

var dollarTagPattern = regexp.MustCompile(`^\$([a-z_][a-z0-9_]*)?\$`)

// dollarTag returns the opening tag of a dollar-quoted string ($$ or
// $tag$) at the start of s. Tags are lowercase so they never collide with
// variable references.
func dollarTag(s string) string {
	return dollarTagPattern.FindString(s)
}

func kindAt(regions []region, pos int) regionKind {
	i := sort.Search(len(regions), func(i int) bool { return regions[i].end > pos })
	if i < len(regions) && regions[i].start <= pos {
		return regions[i].kind
	}
	return regionCode
}

// Split splits a script into statements on semicolons outside quotes and
// comments. Statements that hold only whitespace and comments are dropped.
func Split(script string) []string {
	var stmts []string
	var cur, code strings.Builder

	flush := func() {
		if strings.TrimSpace(code.String()) != "" {
			stmts = append(stmts, strings.TrimSpace(cur.String()))
		}
		cur.Reset()
		code.Reset()
	}

	for _, r := range lex(script) {
		text := script[r.start:r.end]
		if r.kind != regionCode {
			cur.WriteString(text)
			if r.kind == regionQuoted {
				code.WriteString(text)
			}
			continue
		}
		for {
			j := strings.IndexByte(text, ';')
			if j < 0 {
				cur.WriteString(text)
				code.WriteString(text)
				break
			}
			cur.WriteString(text[:j])
			code.WriteString(text[:j])
			flush()
			text = text[j+1:]
		}
	}
	flush()
	return stmts
}

var varPattern = regexp.MustCompile(
	`(?i:IFNULL)\(\s*\$([A-Z_][A-Z0-9_]*)\s*,\s*'((?:[^']|'')*)'\s*\)` +
		`|\$\{([A-Z_][A-Z0-9_]*)\}` +
		`|\$([A-Z_][A-Z0-9_]*)`)

// Substitute replaces variable references outside quotes and comments:
//
//	IFNULL($VAR, 'default')  the quoted value of VAR, or 'default' if unset
//	$VAR                     the quoted value of VAR
//	${VAR}                   the raw value of VAR, for identifiers
//
// References to unset variables are left as written and returned in
// missing, in order of first appearance.
func Substitute(script string, vars map[string]string) (out string, missing []string) {
	regions := lex(script)
	seen := make(map[string]bool)

	var b strings.Builder
	last := 0
	for _, m := range varPattern.FindAllStringSubmatchIndex(script, -1) {
		start, end := m[0], m[1]
		if kindAt(regions, start) != regionCode {
			continue
		}

		var repl string
		switch {
		case m[2] >= 0:
			name, def := script[m[2]:m[3]], script[m[4]:m[5]]
			if v, ok := vars[name]; ok {
				repl = quoteLiteral(v)
			} else {
				repl = "'" + def + "'"
			}
		case m[6] >= 0:
			name := script[m[6]:m[7]]
			v, ok := vars[name]
			if !ok {
				if !seen[name] {
					seen[name] = true
					missing = append(missing, name)
				}
				continue
			}
			repl = v
		default:
			name := script[m[8]:m[9]]
			v, ok := vars[name]
			if !ok {
				if !seen[name] {
					seen[name] = true
					missing = append(missing, name)
				}
				continue
			}
			repl = quoteLiteral(v)
		}

		b.WriteString(script[last:start])
		b.WriteString(repl)
		last = end
	}
	b.WriteString(script[last:])
	return b.String(), missing
}

func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
