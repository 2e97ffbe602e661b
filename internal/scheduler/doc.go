// Package scheduler drives the batch loop: build a batch of probes, run them
// all concurrently, wait for every one to finish, report, repeat.
//
// This package is internal to volley. A batch cycles through the registry
// count times, so a roster of T targets yields count*T probes. All probes of
// a batch are in flight at once; there is no concurrency cap beyond the batch
// size. The reporter runs strictly after a batch drains and strictly before
// the next batch is dispatched.
//
// The main components are:
//
//   - [Scheduler]: The batch loop
//   - [BatchStats]: Summary of one drained batch, passed to observers
package scheduler
