package main

import "github.com/LeJamon/goPredictd/internal/cli"

func main() {
	cli.Execute()
}
