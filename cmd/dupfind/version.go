package main

import (
	"encoding/json"
	"fmt"

	"github.com/loxia-dev/dupfind/internal/dupfind"
	"github.com/spf13/cobra"
)

const (
	versionMajor = 1
	versionMinor = 0
	versionPatch = 0
	releaseDate  = "2026-08-01"
	license      = "GPL-2.0-or-later"
)

// VersionCommand defines the CLI command parameters for the version subcommand.
type VersionCommand struct {
	CheckSupport string `json:"check-hashalgo-support"`
	ConfigOutput bool   `json:"config"`
	JSONOutput   bool   `json:"json"`
}

// VersionJSONResult is a struct used to serialize JSON output.
type VersionJSONResult struct {
	Version     string              `json:"version"`
	ReleaseDate string              `json:"release-date"`
	License     string              `json:"license"`
	HashAlgos   []HashAlgorithmData `json:"hash-algorithms"`
}

// HashAlgorithmData contains the metadata of a checksum algorithm.
type HashAlgorithmData struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

var versionCommand *VersionCommand
var argCheckSupport string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "returns metadata about this implementation",
	Long: `Returns the implementation's

• version
• release date
• license name
• list of supported checksum algorithms
`,
	Args: func(cmd *cobra.Command, args []string) error {
		versionCommand = new(VersionCommand)
		versionCommand.CheckSupport = argCheckSupport
		versionCommand.ConfigOutput = argConfigOutput
		versionCommand.JSONOutput = argJSONOutput

		if envJSON, err := envToBool("DUPFIND_JSON"); err == nil {
			versionCommand.JSONOutput = envJSON
			argJSONOutput = envJSON
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		exitCode, cmdError = versionCommand.Run(w, logOut)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVar(&argCheckSupport, "check-support", "", "exit code 100 indicates that the given checksum algorithm is unsupported")
}

const humanReadableRepresentation = `version:       %s
release date:  %s
license:       %s

checksum algorithms:
(* denotes default algorithm)
`

// Run executes the version subcommand.
func (c *VersionCommand) Run(w, log Output) (int, error) {
	if c.ConfigOutput {
		b, err := json.Marshal(c)
		if err != nil {
			return 6, fmt.Errorf(configJSONErrMsg, err)
		}
		w.Println(string(b))
		return 0, nil
	}

	data := VersionJSONResult{
		Version:     fmt.Sprintf("%d.%d.%d", versionMajor, versionMinor, versionPatch),
		ReleaseDate: releaseDate,
		License:     license,
	}
	for _, name := range dupfind.ChecksumKindNames() {
		data.HashAlgos = append(data.HashAlgos, HashAlgorithmData{
			Name:    name,
			Default: name == dupfind.ChecksumSHA1.String(),
		})
	}

	checkSupportFailed := c.CheckSupport != ""
	for _, ha := range data.HashAlgos {
		if ha.Name == c.CheckSupport {
			checkSupportFailed = false
		}
	}

	if c.JSONOutput {
		jsonRepr, err := json.MarshalIndent(&data, "", "  ")
		if err != nil {
			return 6, fmt.Errorf(resultJSONErrMsg, err)
		}
		w.Println(string(jsonRepr))
	} else {
		w.Printf(humanReadableRepresentation, data.Version, data.ReleaseDate, data.License)
		for _, ha := range data.HashAlgos {
			isDefault := ""
			if ha.Default {
				isDefault = " *"
			}
			w.Printfln("\t%s%s", ha.Name, isDefault)
		}
	}

	if c.CheckSupport != "" && checkSupportFailed {
		return 100, nil
	}
	return 0, nil
}
