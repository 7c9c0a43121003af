// Package repl is the interactive mode of kv-cli.
//
// Each input line is split into arguments with redis-cli quoting rules
// and handed to an ExecFunc. "exit" and "quit" leave the loop; "help"
// lists the known commands. Lines are kept in a History that can be
// persisted between sessions.
package repl
