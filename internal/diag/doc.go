// Package diag defines the diagnostic record produced by the scanner and
// consumed by every external collaborator (CLI renderers, editors, CI).
package diag
