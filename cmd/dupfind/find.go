package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/loxia-dev/dupfind/internal/dupfind"
	"github.com/spf13/cobra"
)

// FindCommand defines the CLI command parameters for the find subcommand.
type FindCommand struct {
	Roots                []string `json:"roots"`
	IgnoreEmpty          bool     `json:"ignoreempty"`
	MinSize              uint64   `json:"minsize"`
	MaxSize              uint64   `json:"maxsize"`
	FollowSymlinks       bool     `json:"followsymlinks"`
	RemoveIdenticalInode bool     `json:"removeidentinode"`
	Checksum             string   `json:"checksum"`
	BufferSize           int      `json:"buffersize"`
	Deterministic        bool     `json:"deterministic"`
	MakeResultsFile      bool     `json:"makeresultsfile"`
	OutputName           string   `json:"outputname"`
	Overwrite            bool     `json:"overwrite"`
	MakeSymlinks         bool     `json:"makesymlinks"`
	MakeHardlinks        bool     `json:"makehardlinks"`
	DeleteDuplicates     bool     `json:"deleteduplicates"`
	DryRun               bool     `json:"dryrun"`
	Sleep                int      `json:"sleep"`
	Progress             bool     `json:"progress"`
	ConfigOutput         bool     `json:"config"`
	JSONOutput           bool     `json:"json"`

	// minSizeExplicit records whether -minsize was passed on the command
	// line; when it wasn't, IgnoreEmpty decides MinSize instead (spec.md
	// §6: "-ignoreempty" sets minsize=1/0, but an explicit "-minsize"
	// supersedes it).
	minSizeExplicit bool
}

// FindJSONResult is a struct used to serialize JSON output for one
// duplicate class.
type FindJSONResult struct {
	Checksum   string   `json:"checksum"`
	Canonical  string   `json:"canonical"`
	Duplicates []string `json:"duplicates"`
}

var findCommand *FindCommand

var (
	argIgnoreEmpty      bool
	argMinSize          uint64
	argMaxSize          uint64
	argFollowSymlinks   bool
	argRemoveIdentInode bool
	argChecksum         string
	argBufferSize       int
	argDeterministic    bool
	argMakeResultsFile  bool
	argOutputName       string
	argOverwrite        bool
	argMakeSymlinks     bool
	argMakeHardlinks    bool
	argDeleteDuplicates bool
	argDryRun           bool
	argSleep            int
	argProgress         bool
)

var findCmd = &cobra.Command{
	Use:   "find ROOT...",
	Short: "Finds duplicate regular files under the given roots",
	Long: `find walks every ROOT in the given order, fingerprints regular files in
stages (size, then first bytes, then last bytes, then a full checksum),
and reports every group of files with identical content.

For example:

    dupfind find /home/alice /home/bob

will report every duplicate file found under either directory.
`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("expected at least 1 root directory; 0 were given")
		}

		findCommand = new(FindCommand)
		findCommand.Roots = args
		findCommand.IgnoreEmpty = argIgnoreEmpty
		findCommand.MinSize = argMinSize
		findCommand.minSizeExplicit = cmd.Flags().Changed("minsize")
		findCommand.MaxSize = argMaxSize
		findCommand.FollowSymlinks = argFollowSymlinks
		findCommand.RemoveIdenticalInode = argRemoveIdentInode
		findCommand.Checksum = argChecksum
		findCommand.BufferSize = argBufferSize
		findCommand.Deterministic = argDeterministic
		findCommand.MakeResultsFile = argMakeResultsFile
		findCommand.OutputName = argOutputName
		findCommand.Overwrite = argOverwrite
		findCommand.MakeSymlinks = argMakeSymlinks
		findCommand.MakeHardlinks = argMakeHardlinks
		findCommand.DeleteDuplicates = argDeleteDuplicates
		findCommand.DryRun = argDryRun
		findCommand.Sleep = argSleep
		findCommand.Progress = argProgress
		findCommand.ConfigOutput = argConfigOutput
		findCommand.JSONOutput = argJSONOutput

		if envJSON, err := envToBool("DUPFIND_JSON"); err == nil {
			findCommand.JSONOutput = envJSON
		}
		if envOverwrite, err := envToBool("DUPFIND_OVERWRITE"); err == nil {
			findCommand.Overwrite = envOverwrite
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		exitCode, cmdError = findCommand.Run(w, logOut)
	},
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().BoolVar(&argIgnoreEmpty, "ignoreempty", true, "true sets minsize=1, false sets minsize=0, unless -minsize is also given")
	findCmd.Flags().Uint64Var(&argMinSize, "minsize", 1, "ignore files smaller than this many bytes (overrides -ignoreempty)")
	findCmd.Flags().Uint64Var(&argMaxSize, "maxsize", 0, "ignore files larger than this many bytes (0 means unlimited)")
	findCmd.Flags().BoolVar(&argFollowSymlinks, "followsymlinks", false, "follow symlinked files during traversal (symlinked directories are never descended into)")
	findCmd.Flags().BoolVar(&argRemoveIdentInode, "removeidentinode", true, "treat multiple paths to the same inode as a single file")
	findCmd.Flags().StringVar(&argChecksum, "checksum", "sha1", "checksum algorithm to use: none, md5, sha1, sha256, sha512, xxh128 (none skips the checksum stage, an unsafe mode)")
	findCmd.Flags().IntVar(&argBufferSize, "buffersize", 1<<20, "read buffer size in bytes")
	findCmd.Flags().BoolVar(&argDeterministic, "deterministic", true, "sort each root's newly ingested files by (depth, path) before further processing")
	findCmd.Flags().BoolVar(&argMakeResultsFile, "makeresultsfile", true, "write a results file listing every duplicate found")
	findCmd.Flags().StringVar(&argOutputName, "outputname", envOr("DUPFIND_OUTPUT", "results.txt"), "write results to this file")
	findCmd.Flags().BoolVar(&argOverwrite, "overwrite", false, "overwrite the results file if it already exists")
	findCmd.Flags().BoolVar(&argMakeSymlinks, "makesymlinks", false, "replace duplicates with symlinks to the canonical copy")
	findCmd.Flags().BoolVar(&argMakeHardlinks, "makehardlinks", false, "replace duplicates with hardlinks to the canonical copy")
	findCmd.Flags().BoolVar(&argDeleteDuplicates, "deleteduplicates", false, "delete duplicates outright")
	findCmd.Flags().BoolVarP(&argDryRun, "dryrun", "n", false, "report what would be done without touching the filesystem")
	findCmd.Flags().IntVar(&argSleep, "sleep", 0, "milliseconds to sleep between files while fingerprinting (0,1,2,3,4,5,10,25,50,100)")
	findCmd.Flags().BoolVar(&argProgress, "progress", false, "show a progress bar while fingerprinting")
}

// buildConfig resolves c into a validated dupfind.Config.
func (c *FindCommand) buildConfig() (*dupfind.Config, error) {
	cfg := dupfind.NewConfig()
	switch {
	case c.minSizeExplicit:
		cfg.MinSize = c.MinSize
	case c.IgnoreEmpty:
		cfg.MinSize = 1
	default:
		cfg.MinSize = 0
	}
	cfg.ApplyMaxSizeFlag(c.MaxSize)
	cfg.FollowSymlinks = c.FollowSymlinks
	cfg.RemoveIdenticalInode = c.RemoveIdenticalInode

	kind, err := dupfind.ChecksumKindFromString(c.Checksum)
	if err != nil {
		return nil, err
	}
	cfg.Checksum = kind

	if err := cfg.SetBufferSize(c.BufferSize); err != nil {
		return nil, err
	}
	cfg.Deterministic = c.Deterministic
	cfg.MakeResultsFile = c.MakeResultsFile
	cfg.OutputName = c.OutputName
	cfg.MakeSymlinks = c.MakeSymlinks
	cfg.MakeHardlinks = c.MakeHardlinks
	cfg.DeleteDuplicates = c.DeleteDuplicates
	cfg.DryRun = c.DryRun
	if err := cfg.SetSleepMillis(c.Sleep); err != nil {
		return nil, err
	}
	cfg.Progress = c.Progress

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run executes the find subcommand: traverse every root, run the
// pipeline, write the results file, and apply any configured mutation.
func (c *FindCommand) Run(w Output, log Output) (int, error) {
	if c.ConfigOutput {
		b, err := json.Marshal(c)
		if err != nil {
			return 6, fmt.Errorf(configJSONErrMsg, err)
		}
		w.Println(string(b))
		return 0, nil
	}

	cfg, err := c.buildConfig()
	if err != nil {
		return 2, err
	}

	if cfg.MakeResultsFile {
		if _, err := os.Stat(cfg.OutputName); err == nil && !c.Overwrite {
			return 3, fmt.Errorf(existsErrMsg, cfg.OutputName)
		}
	}

	var records []*dupfind.FileRecord
	traverser := dupfind.NewTraverser(cfg)
	excludePath := ""
	if cfg.MakeResultsFile {
		excludePath = cfg.OutputName
	}
	for i, root := range c.Roots {
		lastCount := len(records)
		if err := traverser.Walk(root, i, excludePath, func(r *dupfind.FileRecord) {
			records = append(records, r)
		}); err != nil {
			return 4, err
		}
		if cfg.Deterministic {
			dupfind.NewRecordList(records).SortOnDepthAndName(lastCount)
		}
		log.Printfln("scanned %q, found %d files", root, len(records)-lastCount)
	}
	log.Printfln("now have %d files in total", len(records))

	rl := dupfind.NewRecordList(records)
	var progress dupfind.Progress = dupfind.NoopProgress{}
	if cfg.Progress {
		progress = dupfind.NewBarProgress(os.Stderr)
	}
	if err := rl.Run(cfg, progress); err != nil {
		return 5, err
	}

	groups := rl.DuplicateGroups()
	log.Printfln("found %d duplicate classes", len(groups))

	if cfg.MakeResultsFile {
		f, err := os.Create(cfg.OutputName)
		if err != nil {
			return 3, err
		}
		reporter := dupfind.NewReporter(f)
		if err := reporter.WriteHead(cfg, c.Roots); err != nil {
			f.Close()
			return 3, err
		}
		for _, group := range groups {
			if err := reporter.WriteGroup(group); err != nil {
				f.Close()
				return 3, err
			}
		}
		if err := reporter.Close(); err != nil {
			f.Close()
			return 3, err
		}
		f.Close()
	}

	driver := &dupfind.ActionDriver{Mutator: &dupfind.TransactionalMutator{DryRun: cfg.DryRun}}
	result, err := driver.Run(groups, cfg)
	if err != nil {
		return 5, err
	}
	for _, failure := range result.Failed {
		log.Printfln("failed: %s", failure.String())
	}

	if c.JSONOutput {
		out := make([]FindJSONResult, 0, len(groups))
		for _, group := range groups {
			dupPaths := make([]string, 0, len(group)-1)
			for _, dup := range group[1:] {
				dupPaths = append(dupPaths, dup.Path)
			}
			out = append(out, FindJSONResult{
				Checksum:   fmt.Sprintf("%x", group[0].Checksum),
				Canonical:  group[0].Path,
				Duplicates: dupPaths,
			})
		}
		b, err := json.Marshal(out)
		if err != nil {
			return 6, fmt.Errorf(resultJSONErrMsg, err)
		}
		w.Println(string(b))
	} else {
		for _, group := range groups {
			w.Printfln("%x", group[0].Checksum)
			for _, dup := range group[1:] {
				w.Printfln("  %s -> %s", dup.Path, group[0].Path)
			}
		}
	}

	return 0, nil
}
