package main

import (
	"github.com/miiarobot/miia.go/pkg/cli/sh"

	_ "github.com/miiarobot/miia.go/pkg/cli/cmds/robot"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
