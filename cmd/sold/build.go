// Package main implements the sold CLI.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"sold/cgo/libsolc"
	"sold/cgo/tvmlinker"
	"sold/internal/build"
	"sold/internal/config"
	"sold/internal/journal"
	"sold/internal/logger"
)

func init() {
	rootCmd.Flags().StringP("contract", "c", "", "contract to build if the source defines more than one")
	rootCmd.Flags().StringP("output-dir", "O", "", "output directory (default: current)")
	rootCmd.Flags().StringP("output-prefix", "P", "", "prefix for output files (default: input file stem)")
	rootCmd.Flags().StringArrayP("include-path", "I", nil, "additional directory for import resolution (repeatable)")
	rootCmd.Flags().StringP("lib", "L", "", "library to link against instead of the embedded one")
	rootCmd.Flags().String("init", "", "initial static field values in json format, patched into the container")
	rootCmd.Flags().Bool("function-ids", false, "print the function id table and exit")
	rootCmd.Flags().Bool("ast-json", false, "write the AST of all source files in JSON format and exit")
	rootCmd.Flags().Bool("ast-compact-json", false, "write the AST of all source files in compact JSON format and exit")
	rootCmd.Flags().Bool("abi-json", false, "write the ABI and exit without compiling")
	rootCmd.Flags().Bool("tvm-refresh-remote", false, "force download of remote import files")
	rootCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")

	// Kept from the pre-driver toolchain; hidden because contract deployment
	// moved to dedicated tooling.
	rootCmd.Flags().String("ctor-params", "", "constructor arguments in json format")
	rootCmd.Flags().String("genkey", "", "generate a keypair, store it at the given path, sign the container")
	rootCmd.Flags().String("setkey", "", "sign the container with the keypair at the given path")
	for _, name := range []string{"ctor-params", "genkey", "setkey"} {
		_ = rootCmd.Flags().MarkHidden(name)
	}

	rootCmd.MarkFlagsMutuallyExclusive("ast-json", "ast-compact-json")
	rootCmd.MarkFlagsMutuallyExclusive("genkey", "setkey")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	contract, err := flags.GetString("contract")
	if err != nil {
		return err
	}
	outputDir, err := flags.GetString("output-dir")
	if err != nil {
		return err
	}
	outputPrefix, err := flags.GetString("output-prefix")
	if err != nil {
		return err
	}
	includePaths, err := flags.GetStringArray("include-path")
	if err != nil {
		return err
	}
	lib, err := flags.GetString("lib")
	if err != nil {
		return err
	}
	initData, err := flags.GetString("init")
	if err != nil {
		return err
	}
	functionIDs, err := flags.GetBool("function-ids")
	if err != nil {
		return err
	}
	astJSON, err := flags.GetBool("ast-json")
	if err != nil {
		return err
	}
	astCompactJSON, err := flags.GetBool("ast-compact-json")
	if err != nil {
		return err
	}
	abiJSON, err := flags.GetBool("abi-json")
	if err != nil {
		return err
	}
	refreshRemote, err := flags.GetBool("tvm-refresh-remote")
	if err != nil {
		return err
	}
	ctorParams, err := flags.GetString("ctor-params")
	if err != nil {
		return err
	}
	genKey, err := flags.GetString("genkey")
	if err != nil {
		return err
	}
	setKey, err := flags.GetString("setkey")
	if err != nil {
		return err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := flags.GetBool("timings")
	if err != nil {
		return err
	}

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	// Manifest values fill in whatever the command line left unset.
	manifest, manifestFound, err := config.Find(".")
	if err != nil {
		return err
	}
	if manifestFound {
		logger.Debug("using manifest %s", manifest.Path)
		if outputDir == "" {
			outputDir = manifest.ResolvePath(manifest.Build.OutputDir)
		}
		if lib == "" {
			lib = manifest.ResolvePath(manifest.Build.Lib)
		}
		for _, p := range manifest.Build.IncludePaths {
			includePaths = append(includePaths, manifest.ResolvePath(p))
		}
	}

	req := &build.Request{
		Input:          args[0],
		Contract:       contract,
		OutputDir:      outputDir,
		OutputPrefix:   outputPrefix,
		IncludePaths:   includePaths,
		Lib:            lib,
		InitData:       initData,
		CtorParams:     ctorParams,
		GenKeyFile:     genKey,
		SetKeyFile:     setKey,
		FunctionIDs:    functionIDs,
		ASTJSON:        astJSON,
		ASTCompactJSON: astCompactJSON,
		ABIJSON:        abiJSON,
		RefreshRemote:  refreshRemote,
		Quiet:          quiet,
	}

	compiler := libsolc.New()
	engine := tvmlinker.New()

	// The function id table goes to stdout; a TUI would swallow it.
	useTUI := shouldUseTUI(uiModeValue) && !functionIDs && !quiet

	var res build.Result
	if useTUI {
		title := "sold " + filepath.Base(args[0])
		res, err = runBuildWithUI(cmd.Context(), title, compiler, engine, req)
	} else {
		res, err = build.Run(cmd.Context(), compiler, engine, req)
	}
	if showTimings {
		printStageTimings(os.Stdout, res.Timings)
	}
	if err != nil {
		return err
	}

	if len(res.Artifacts) > 0 {
		recordBuild(req, res, compiler.Version())
	}
	return nil
}

// recordBuild journals where the artifacts landed. Journaling is best-effort:
// a read-only cache directory must not fail the build.
func recordBuild(req *build.Request, res build.Result, compilerVersion string) {
	j, err := journal.Open("sold")
	if err != nil {
		logger.Warn("build journal unavailable: %v", err)
		return
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	entry := &journal.Entry{
		Input:           req.Input,
		OutputDir:       outputDir,
		Prefix:          req.OutputPrefix,
		Artifacts:       res.Artifacts,
		CompilerVersion: compilerVersion,
		FinishedAt:      time.Now(),
	}
	if err := j.Put(outputDir, entry); err != nil {
		logger.Warn("failed to journal the build: %v", err)
	}
}
