// Package cli provides the interactive HealthKeeper command-line client.
//
// It wires configuration, the REST API client and a REPL. A typical session:
// register or login (the password is read without echo), add health records
// and medications, look at stats and trends, and request a data export link.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli
