package main

import (
	"log"
	"os"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	if err := rootCmd().Execute(); err != nil {
		logger.Printf("\nerror: %s\n", err)
		os.Exit(1)
	}
}
