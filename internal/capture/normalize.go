package capture

import "strings"

// NormalizeApp trims surrounding whitespace from an application name and
// collapses internal whitespace runs to a single space. Case is preserved:
// "VSCode" and "vscode" are different applications to the window monitor.
func NormalizeApp(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
