package main

import (
	"io"
	"os"
)

const stdio = "-"

func readInput(path string) ([]byte, error) {
	if path == "" || path == stdio {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == stdio {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
