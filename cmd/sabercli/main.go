package main

import (
	"github.com/robotalks/saber.go/pkg/cli/sh"
	"github.com/robotalks/saber.go/pkg/env"

	_ "github.com/robotalks/saber.go/pkg/cli/cmds/drive"
	_ "github.com/robotalks/saber.go/pkg/cli/cmds/text"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
