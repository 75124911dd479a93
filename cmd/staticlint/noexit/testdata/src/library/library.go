package library

import (
	"log"
	"os"
)

func Load(path string) error {
	if path == "" {
		os.Exit(2) // want `os.Exit outside package main: return an error instead`
	}
	if _, err := os.Stat(path); err != nil {
		log.Fatalf("stat: %v", err) // want `log.Fatalf outside package main: return an error instead`
	}
	log.Println("loaded")

	return nil
}
