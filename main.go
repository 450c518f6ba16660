// Package main is the entry point for vplay.
package main

import (
	"github.com/samber/lo"
	"github.com/vplay-cli/vplay/cmd"
	"github.com/vplay-cli/vplay/config"
	"github.com/vplay-cli/vplay/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
