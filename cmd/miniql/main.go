// Command miniql is the batch CLI entrypoint for the engine: it loads a
// snapshot, runs a file of statements against it, and optionally saves
// the result back out. There is no REPL or HTTP dashboard here — both
// are explicitly out of scope.
package main

func main() {
	Execute()
}
