// Package pipeline implements the Markdown-to-HTML conversion stages.
//
// The stages run in this order:
//   - Markdown preprocessing (line normalization, Obsidian embeds, ==highlight==)
//   - Markdown to HTML fragment via goldmark or gomarkdown
//   - Optional sanitizing of raw HTML with bluemonday
//   - Restyling: document skeleton, header with version banner, inline
//     styles for headings, callouts, images and emphasis, footer
//   - Relative path rewriting, only used before PDF rendering
//
// PDF generation is handled separately by the root md2html package using
// headless Chrome (go-rod).
package pipeline
