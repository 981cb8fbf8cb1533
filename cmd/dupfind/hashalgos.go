package main

import (
	"encoding/json"
	"fmt"

	"github.com/loxia-dev/dupfind/internal/dupfind"
	"github.com/spf13/cobra"
)

// HashAlgosJSONResult is a struct used to serialize JSON output.
type HashAlgosJSONResult struct {
	CheckSucceeded bool     `json:"check-result"`
	SupportedAlgos []string `json:"supported-checksum-algorithms"`
}

// HashAlgosCommand defines the CLI command parameters for the hashalgos subcommand.
type HashAlgosCommand struct {
	CheckSupport string `json:"check-support"`
	ConfigOutput bool   `json:"config"`
	JSONOutput   bool   `json:"json"`
}

var hashAlgosCommand *HashAlgosCommand
var argHashAlgosCheckSupport string

var hashAlgosCmd = &cobra.Command{
	Use:   "hashalgos",
	Short: "Lists supported checksum algorithms",
	Args: func(cmd *cobra.Command, args []string) error {
		hashAlgosCommand = new(HashAlgosCommand)
		hashAlgosCommand.CheckSupport = argHashAlgosCheckSupport
		hashAlgosCommand.ConfigOutput = argConfigOutput
		hashAlgosCommand.JSONOutput = argJSONOutput
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		exitCode, cmdError = hashAlgosCommand.Run(w, logOut)
	},
}

func init() {
	rootCmd.AddCommand(hashAlgosCmd)
	hashAlgosCmd.Flags().StringVar(&argHashAlgosCheckSupport, "check-support", "", "exit code 100 indicates that the given checksum algorithm is unsupported")
}

// Run executes the hashalgos subcommand.
func (c *HashAlgosCommand) Run(w, log Output) (int, error) {
	if c.ConfigOutput {
		b, err := json.Marshal(c)
		if err != nil {
			return 6, fmt.Errorf(configJSONErrMsg, err)
		}
		w.Println(string(b))
		return 0, nil
	}

	data := HashAlgosJSONResult{
		SupportedAlgos: dupfind.ChecksumKindNames(),
	}
	if c.CheckSupport != "" {
		for _, name := range data.SupportedAlgos {
			if name == c.CheckSupport {
				data.CheckSucceeded = true
			}
		}
	}

	if c.JSONOutput {
		b, err := json.Marshal(&data)
		if err != nil {
			return 6, fmt.Errorf(resultJSONErrMsg, err)
		}
		w.Println(string(b))
	} else {
		jsonRepr, err := json.MarshalIndent(&data, "", "  ")
		if err != nil {
			return 6, fmt.Errorf(resultJSONErrMsg, err)
		}
		w.Println(string(jsonRepr))
	}

	if c.CheckSupport != "" && !data.CheckSucceeded {
		return 100, nil
	}
	return 0, nil
}
