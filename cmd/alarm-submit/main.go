package main

import "github.com/oshokin/alarm-clock/cmd/alarm-submit/cmd"

func main() {
	cmd.Execute()
}
