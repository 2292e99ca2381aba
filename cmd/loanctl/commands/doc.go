// Package commands defines the loanctl operator CLI.
//
// Commands
//
//   - list     Print committed applications, optionally filtered
//   - stats    Print the dashboard counters
//   - show     Print one application as JSON
//   - review   Move a submitted application through review
//
// The root command loads the service configuration, opens the configured
// slot store and loads the registry before any subcommand runs.
//
// The service keeps the registry in memory and rewrites the whole slot on
// every change, so a direct `review` against a store the service is also
// using is lost on the service's next write. Use `review --api <url>` while
// the service runs; it goes through POST /applications/:id/status instead.
package commands
