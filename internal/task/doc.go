// Package task holds the task model and the in-memory store behind taskwave.
//
// Tasks are grouped into waves. Completing the last open task of group g
// unlocks group g+1 by creating its first task ("Task {g+1}-1"). The store
// keeps tasks in insertion order and assigns ids as max existing id + 1.
//
// Store is not safe for concurrent use. Callers that share a Store across
// goroutines (the tracker service) must serialize access themselves.
package task
