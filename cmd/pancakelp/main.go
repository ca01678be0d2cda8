package main

import (
	"os"

	"github.com/Adi9876/LP-pancakeswap/internal/app"
)

func main() {
	runner := app.NewRunner()
	os.Exit(runner.Run(os.Args[1:]))
}
