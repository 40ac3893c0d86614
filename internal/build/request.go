package build

import "io"

// Request is the immutable configuration of one pipeline run. It is built
// once from the command line (plus sold.toml defaults) and only read after
// that.
type Request struct {
	// Input is the source file path as given; Run canonicalizes it.
	Input string
	// Contract names the contract to build when the source defines several.
	// Empty means "select the only sensible one, or fail".
	Contract string
	// OutputDir receives every artifact; empty means the current directory.
	OutputDir string
	// OutputPrefix names the artifacts; empty means the input file stem.
	// It must not contain path separators.
	OutputPrefix string
	// IncludePaths are extra import search roots, passed through verbatim.
	IncludePaths []string
	// Lib replaces the embedded runtime library when set.
	Lib string
	// InitData, when set, is a JSON document of static field values patched
	// into the freshly built container.
	InitData string
	// CtorParams is the deprecated constructor invocation, passed through to
	// the assembler session.
	CtorParams string
	// GenKeyFile stores a newly generated keypair under this path (secret)
	// and path+".pub" (public) and binds it into the assembler session.
	GenKeyFile string
	// SetKeyFile binds the keypair loaded from this secret file instead.
	SetKeyFile string

	// FunctionIDs prints the public function dispatch table and stops.
	FunctionIDs bool
	// ASTJSON and ASTCompactJSON write the AST of every source and stop.
	ASTJSON        bool
	ASTCompactJSON bool
	// ABIJSON stops after the interface description artifact.
	ABIJSON bool
	// RefreshRemote forces re-download of remote imports.
	RefreshRemote bool

	// Quiet suppresses the success line.
	Quiet bool

	// Stdout and Stderr default to the process streams. Diagnostics and the
	// terminating error context go to Stderr, results to Stdout.
	Stdout io.Writer
	Stderr io.Writer

	// Progress receives stage events; nil means no reporting.
	Progress ProgressSink
}

// wantAssembly reports whether the run intends to produce a binary artifact,
// which both adds "assembly" to the compiler request and restricts unnamed
// contract selection to deployable contracts.
func (r *Request) wantAssembly() bool {
	return !r.ABIJSON && !r.ASTJSON && !r.ASTCompactJSON
}

// Stages lists the pipeline stages this request will run, in order.
func (r *Request) Stages() []Stage {
	stages := []Stage{StageCompile}
	if r.FunctionIDs {
		return stages
	}
	stages = append(stages, StageEmit)
	if !r.wantAssembly() {
		return stages
	}
	stages = append(stages, StageAssemble)
	if r.InitData != "" {
		stages = append(stages, StageData)
	}
	return stages
}

// Result carries the durable outputs of one pipeline run. Paths are empty
// for artifacts the run did not reach.
type Result struct {
	ABIFile   string
	CodeFile  string
	TVCFile   string
	DebugFile string
	ASTFile   string
	// PublicFile and SecretFile are set when a keypair was generated.
	PublicFile string
	SecretFile string

	// Artifacts lists every file written, in the order it was written.
	Artifacts []string

	Timings Timings
}

func (r *Result) addArtifact(path string) {
	r.Artifacts = append(r.Artifacts, path)
}
