// This program mines, simulates and verifies proof of work chains.
package main

import "github.com/ardanlabs/powchain/app/tooling/powctl/cmd"

func main() {
	cmd.Execute()
}
