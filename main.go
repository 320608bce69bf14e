package main

import (
	"log"

	"github.com/ras0q/lazymemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("error: %v", err)
	}
}
