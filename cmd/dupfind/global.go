package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// <constants>
const existsErrMsg = `file '%s' already exists and --overwrite was not specified`
const configJSONErrMsg = `could not serialize config JSON: %s`
const resultJSONErrMsg = `could not serialize result JSON: %s`

// </constants>

// <global-variables>
//   <subset purpose="used by cobra">
var argConfigOutput bool
var argJSONOutput bool

//   </subset>

//   <subset purpose="passed between cobra Run closures and command Run methods">
var w Output
var logOut Output
var exitCode int
var cmdError error

//   </subset>
// </global-variables>

// rootCmd is the entry point every subcommand attaches to.
var rootCmd = &cobra.Command{
	Use:   "dupfind",
	Short: "Finds duplicate regular files and optionally replaces them",
	Long: `dupfind walks one or more directory trees, finds regular files with
identical content, and can optionally replace the duplicates with
symlinks, hardlinks, or delete them outright.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		w = &PlainOutput{Device: os.Stdout}
		logOut = &PlainOutput{Device: os.Stderr}
		if argJSONOutput {
			logger := logrus.New()
			logger.SetFormatter(&logrus.JSONFormatter{})
			logOut = &logrusOutput{logger: logger}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&argJSONOutput, "json", false, "return output as JSON, not as plain text")
	rootCmd.PersistentFlags().BoolVar(&argConfigOutput, "config", false, "only print the resolved configuration and terminate")
}

// logrusOutput adapts logrus's leveled logger to the Output interface so
// -json diagnostics are structured without changing every call site that
// writes through Output.
type logrusOutput struct {
	logger *logrus.Logger
}

func (l *logrusOutput) Print(text string) (int, error) {
	l.logger.Info(text)
	return len(text), nil
}

func (l *logrusOutput) Println(text string) (int, error) {
	l.logger.Info(text)
	return len(text) + 1, nil
}

func (l *logrusOutput) Printf(format string, args ...interface{}) (int, error) {
	l.logger.Infof(format, args...)
	return 0, nil
}

func (l *logrusOutput) Printfln(format string, args ...interface{}) (int, error) {
	l.logger.Infof(format, args...)
	return 0, nil
}
