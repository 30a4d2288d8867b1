package main

import "github.com/oshokin/alarm-clock/cmd/alarm-demo/cmd"

func main() {
	cmd.Execute()
}
