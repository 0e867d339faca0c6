package render

import (
	"fmt"
	"strings"
)

const lightStyle = `<style>
body {
	font-family: sans-serif;
	font-size: 12pt;
	line-height: 1.6;
}
</style>`

const darkStyleTemplate = `<style>
html {
	background: #121212;
}
body {
	background: transparent;
	color: #e0e0e0;
	margin: 0;
	padding: %gmm;
	font-family: sans-serif;
	font-size: 12pt;
	line-height: 1.6;
	box-sizing: border-box;
}
a { color: #90caf9; }
img { filter: brightness(0.8) contrast(1.2); max-width: 100%%; height: auto; }
</style>`

const documentTemplate = `<html>
<head>
<meta charset="UTF-8">
%s
</head>
<body>
%s
</body>
</html>`

// BuildDocument wraps a sanitized fragment into a complete document styled
// for profile and returns the page layout to print it with.
func BuildDocument(fragment string, profile Profile) (string, PageOptions) {
	opts := profile.Options()
	style := lightStyle
	if profile.Dark {
		style = fmt.Sprintf(darkStyleTemplate, opts.PaddingMM)
	}
	document := fmt.Sprintf(documentTemplate, style, fragment)
	return strings.TrimSpace(document), opts
}
