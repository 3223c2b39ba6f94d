// Package cli provides the interactive TutorHub command-line client.
//
// It wires configuration, the local session cache and the API services into
// a REPL. The session survives restarts until the token expires or the user
// logs out.
//
// Commands:
//   - register, login, logout, whoami
//   - phone, password
//   - posts [subject=.. location=.. min=.. max=..], myposts, show <id>
//   - create, edit <id>, delete <id>
//   - interest <id>, interested <id>, select <id> <tutorId>
//   - help, exit
//
// The REPL is started with App.Run(ctx), which blocks until the user exits.
package cli
