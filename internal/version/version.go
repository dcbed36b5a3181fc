// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Prometheus metrics endpoint, YAML and .env configuration, event log view
// 0.2.0 - Rise/transit/set times, solar altitude over reference features, JSON export
// 0.1.0 - Initial release: Meeus ephemeris, Lunar Club feature visibility, TUI and summary modes
