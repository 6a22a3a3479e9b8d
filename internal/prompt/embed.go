// ABOUTME: Embeds the built-in persona files shipped with the binary
// ABOUTME: Disk personas take precedence; these are the fallback

package prompt

import "embed"

//go:embed personas/*.md
var embeddedPersonas embed.FS
