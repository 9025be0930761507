package parser

import (
	"regexp"
	"strings"
)

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`(?m)--.*$`)
)

// splitStatements cuts a script into statements on semicolons, after
// dropping -- line comments so they cannot hide a terminator or mask the
// CREATE TABLE keyword at the head of a statement.
func splitStatements(sql string) []string {
	sql = lineCommentRe.ReplaceAllString(sql, "")
	var stmts []string
	for _, part := range strings.Split(sql, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		stmts = append(stmts, part)
	}
	return stmts
}

// clean collapses every whitespace run, newlines included, into a single
// space so the single-line statement regexes can see the whole DDL.
func clean(ddl string) string {
	return strings.Join(strings.Fields(ddl), " ")
}

// splitDefinitions splits a CREATE TABLE body on the commas that sit at
// parenthesis depth zero, keeping ENUM('a','b') and DECIMAL(p,s)
// argument lists intact.
func splitDefinitions(body string) []string {
	var defs []string
	depth, start := 0, 0
	for i, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				defs = append(defs, body[start:i])
				start = i + 1
			}
		}
	}
	return append(defs, body[start:])
}
