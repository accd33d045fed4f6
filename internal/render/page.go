package render

import "fmt"

// Page wraps an HTML fragment in a document sized exactly to the display.
func Page(fragment string, width, height int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body, html { margin: 0; padding: 0; width: %dpx; height: %dpx; overflow: hidden; background: #fff; }
body { font-family: sans-serif; }
</style>
</head>
<body>
%s
</body>
</html>
`, width, height, fragment)
}
