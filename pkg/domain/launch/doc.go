// Package launch holds the launcher's decision logic: the parsed options
// model, the run mode it resolves to, the outcome classifier that turns
// runner results and faults into exit codes, and the lifecycle machine that
// tracks one invocation from parsing to its terminal outcome.
//
// Nothing in this package writes to a process exit status. Outcomes are
// plain values; only the binary's main function terminates the process.
package launch
