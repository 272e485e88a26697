// Package engine implements the animated sorting algorithms.
//
// Every algorithm is a sequence of steps over one shared []int:
//
//   - [Tracker]: the run flag and counters borrowed from the controller
//   - [Renderer]: receives the sequence, a color overlay and a caption per step
//   - [Engine]: runs one [Algorithm] with a pacing delay between steps
//
// # Cancellation
//
// Algorithms poll Tracker.Running (and the context) at the top of every loop
// iteration and recursive call, and again after each rendered step. Work that
// already happened is never undone; interrupted merges and insertions only
// write back the values they were holding so the sequence stays a permutation.
//
// # Thread Safety
//
// An Engine runs one algorithm at a time. The sequence passed to Run must not
// be mutated by anyone else until Run returns.
package engine
