package org

import "strings"

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// QuoteLiteral returns s as a single-quoted SOQL string literal.
func QuoteLiteral(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}
