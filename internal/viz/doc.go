// Package viz renders statefield in the terminal.
//
// The package is built on Bubble Tea and lipgloss:
//
//   - [Board]: interactive slider board, one slider per dimension
//   - [EquationLabel] and [Feedback]: the one-line displays of a record
//   - [PlotTimeline]: asciigraph chart of one record field over history
//
// # Key Bindings
//
//	j/k, up/down   - Select dimension
//	h/l, -/+       - Adjust selected dimension by one
//	0-5            - Set selected dimension directly
//	p              - Switch mapping policy
//	q              - Quit
//
// Every change is recorded through the session, so the board and the CLI
// share one history.
package viz
