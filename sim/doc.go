// Package sim provides the discrete-time lane scheduling engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - queue.go: QueueState, the per-lane backlog vector mutated each tick
//   - policy.go: the LanePolicy interface and its three implementations
//   - simulator.go: the tick loop (arrivals, selection, service, snapshot)
//
// # Tick Semantics
//
// Every tick runs four strictly ordered phases:
//  1. ArrivalGenerator draws one Bernoulli arrival per lane
//  2. the LanePolicy selects exactly one lane
//  3. one unit is served from that lane if its backlog is non-zero
//  4. the whole backlog vector is appended to History
//
// # Determinism
//
// Randomness flows only through a PartitionedRNG owned by each Simulator.
// Arrivals and emergency draws use separate subsystems, so every policy run
// with the same Config sees the same arrival sequence. There is no
// package-level mutable state; independent runs may execute in parallel
// (see Compare).
//
// Decision tracing lives in sim/trace/ and is enabled via Config.TraceLevel.
package sim
