package main

import "github.com/aken1023/care-sch/cmd/carebot/cmd"

func main() {
	cmd.Execute()
}
