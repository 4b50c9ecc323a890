/*
Package templating renders the static pages of the crossword blog: one post page per
published puzzle and the post board listing.

Templates are html/template files. Full pages are named "*.tmpl.html" and shared pieces
(navigation, footer, styles) are named "*.part.html". A default set is embedded in the
binary; pointing TemplateConfig.TemplateDir at a directory replaces it, and Refresh
reloads that directory without restarting.

Template helpers cover what the pages need: Korean date formatting, hint slicing, simple
arithmetic and JSON-LD friendly values.
*/
package templating
