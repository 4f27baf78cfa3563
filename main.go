package main

import "github.com/evolute-studio/mage-duel-docs/cmd"

func main() {
	cmd.Execute()
}
