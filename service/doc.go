// Package service is the single entry point for dictionary mutations. It puts
// every added word into the journal, the tree and the outbox in that order,
// and restores the tree from a snapshot and the journal on start-up.
//
// It knows nothing about transports; api/grpcserver and the CLI sit on top.
package service
