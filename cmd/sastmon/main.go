package main

import "github.com/yulinchen03/SAST-energy-monitor/cmd/sastmon/commands"

func main() {
	commands.Execute()
}
