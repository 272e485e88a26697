// Package viz is the interactive terminal front end of sortviz.
//
// The package implements a Bubble Tea program that drives a run.Controller:
//
//   - [Model]: the application model (bar chart, counters, sortedness plot)
//   - [Bridge]: the Renderer and Listener handed to the controller, forwarding
//     worker-side events to the program
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	G         - Generate a new array
//	S / Enter - Start sorting
//	X         - Stop sorting
//	R         - Reset counters
//	Tab       - Next algorithm (Shift+Tab previous)
//	←/→       - Array size -/+ 10
//	↑/↓       - Faster/slower
//	T         - Cycle color themes
//	?         - Toggle full help
//	Q         - Quit
package viz
