// Command heapctl drives the simulated heap: it runs the built-in demo,
// executes allocator scripts and serves the JSON API.
package main

func main() {
	execute()
}
