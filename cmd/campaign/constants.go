package main

// Default limits for CLI commands.
const (
	DefaultMessageListLimit = 50
)
