// main is the entry point for the codecritic CLI.
package main

import (
	"github.com/huangsam/codecritic/cmd"
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/store"
)

func main() {
	err := cmd.Execute()
	store.CloseStores()
	if err != nil {
		contract.LogFatal("codecritic failed", err)
	}
}
