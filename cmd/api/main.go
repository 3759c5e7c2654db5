package main

import "github.com/spec-kit/calllog-service/internal/cli"

func main() {
	cli.Execute()
}
