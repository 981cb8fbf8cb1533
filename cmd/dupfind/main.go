package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	if cmdError != nil {
		exitCode = handleError(cmdError.Error(), exitCode, argJSONOutput)
	}
	os.Exit(exitCode)
}
