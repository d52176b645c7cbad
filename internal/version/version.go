// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Layer panel with dependency-aware toggles, SVG export, HTTP server
// 0.2.0 - Chart backend provider with local fallback, live transit mode
// 0.1.0 - Initial release: terminal chart wheel, positions table, headless render
