// Package main is the entry point for the rangeguard CLI.
package main

import "rangeguard.dev/pkg/rangeguard/cmd"

func main() {
	cmd.Execute()
}
