// Package build sequences one contract build: compiler invocation, result
// interpretation, artifact emission, assembly into a container, and the
// optional static-data patch.
//
// Every stage is gated on the previous one and writes its artifact as soon
// as it is available; artifacts of earlier stages survive a later stage's
// failure, and re-running the pipeline overwrites them all idempotently.
package build

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"sold/internal/abi"
	"sold/internal/keyman"
	"sold/internal/logger"
	"sold/internal/solc"
	"sold/internal/source"
	"sold/internal/tvc"
	"sold/internal/tvmasm"
	"sold/stdlib"
)

// Run drives the whole pipeline for one request.
//
// Diagnostics reported by the compiler go to req.Stderr in response order
// before any verdict is returned. The returned Result is meaningful even on
// error: it names the artifacts that were already written.
func Run(ctx context.Context, compiler solc.Compiler, engine tvmasm.Engine, req *Request) (Result, error) {
	var res Result
	if req == nil {
		return res, fmt.Errorf("missing build request")
	}
	reqCopy := *req
	req = &reqCopy
	if req.Stdout == nil {
		req.Stdout = os.Stdout
	}
	if req.Stderr == nil {
		req.Stderr = os.Stderr
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return res, fmt.Errorf("failed to create output dir: %w", err)
	}
	for i := 0; i < len(req.OutputPrefix); i++ {
		if os.IsPathSeparator(req.OutputPrefix[i]) {
			return res, fmt.Errorf("invalid output prefix %q, use option -O to set the output directory", req.OutputPrefix)
		}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	compileStart := time.Now()
	emit(req.Progress, Event{Stage: StageCompile, Status: StatusWorking})

	input, err := canonicalize(req.Input)
	if err != nil {
		return res, fail(req.Progress, StageCompile, err)
	}

	index := source.NewIndex()
	out, err := invoke(compiler, index, input, req)
	if err != nil {
		return res, fail(req.Progress, StageCompile, err)
	}
	if err := solc.ScanDiagnostics(req.Stderr, out, index); err != nil {
		return res, fail(req.Progress, StageCompile, err)
	}
	contract, err := solc.SelectContract(out, input, req.Contract, req.wantAssembly())
	if err != nil {
		return res, fail(req.Progress, StageCompile, err)
	}
	res.Timings.Set(StageCompile, time.Since(compileStart))
	emit(req.Progress, Event{Stage: StageCompile, Status: StatusDone, Elapsed: res.Timings.Duration(StageCompile)})

	prefix := req.OutputPrefix
	if prefix == "" {
		prefix = fileStem(input)
	}

	if req.FunctionIDs {
		if err := printFunctionIDs(req.Stdout, contract); err != nil {
			return res, fail(req.Progress, StageEmit, err)
		}
		return res, nil
	}

	emitStart := time.Now()
	emit(req.Progress, Event{Stage: StageEmit, Status: StatusWorking})

	if req.ASTJSON || req.ASTCompactJSON {
		astPath := filepath.Join(outputDir, prefix+".ast.json")
		if err := writeASTDump(astPath, out, req.ASTJSON); err != nil {
			return res, fail(req.Progress, StageEmit, err)
		}
		res.ASTFile = astPath
		res.addArtifact(astPath)
		res.Timings.Set(StageEmit, time.Since(emitStart))
		emit(req.Progress, Event{Stage: StageEmit, Status: StatusDone, Artifact: astPath, Elapsed: res.Timings.Duration(StageEmit)})
		return res, nil
	}

	abiPath := filepath.Join(outputDir, prefix+".abi.json")
	if err := writeABI(abiPath, contract); err != nil {
		return res, fail(req.Progress, StageEmit, err)
	}
	res.ABIFile = abiPath
	res.addArtifact(abiPath)
	if req.ABIJSON {
		res.Timings.Set(StageEmit, time.Since(emitStart))
		emit(req.Progress, Event{Stage: StageEmit, Status: StatusDone, Artifact: abiPath, Elapsed: res.Timings.Duration(StageEmit)})
		return res, nil
	}

	if contract.Assembly == nil {
		return res, fail(req.Progress, StageEmit, fmt.Errorf("%w: selected contract has no assembly", solc.ErrBadResponse))
	}
	assembly := []byte(*contract.Assembly)
	codePath := filepath.Join(outputDir, prefix+".code")
	if err := os.WriteFile(codePath, assembly, 0o600); err != nil {
		return res, fail(req.Progress, StageEmit, fmt.Errorf("failed to write %s: %w", codePath, err))
	}
	res.CodeFile = codePath
	res.addArtifact(codePath)
	res.Timings.Set(StageEmit, time.Since(emitStart))
	emit(req.Progress, Event{Stage: StageEmit, Status: StatusDone, Artifact: codePath, Elapsed: res.Timings.Duration(StageEmit)})

	if !req.Quiet {
		fmt.Fprintf(req.Stdout, "Solidity source successfully compiled to %s and %s\n", codePath, abiPath)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	assembleStart := time.Now()
	emit(req.Progress, Event{Stage: StageAssemble, Status: StatusWorking})

	session, err := openSession(engine, req, codePath, assembly, contract)
	if err != nil {
		return res, fail(req.Progress, StageAssemble, err)
	}
	if err := bindKeypair(session, req, &res); err != nil {
		return res, fail(req.Progress, StageAssemble, err)
	}

	// Contracts live in the masterchain unless redeployed; the original
	// toolchain hardcodes -1 the same way.
	linked, err := session.Assemble(tvmasm.AssembleOptions{WorkChain: -1, CtorParams: req.CtorParams})
	if err != nil {
		return res, fail(req.Progress, StageAssemble, err)
	}

	tvcPath := filepath.Join(outputDir, prefix+".tvc")
	if err := os.WriteFile(tvcPath, linked.Container, 0o600); err != nil {
		return res, fail(req.Progress, StageAssemble, fmt.Errorf("failed to write %s: %w", tvcPath, err))
	}
	res.TVCFile = tvcPath
	res.addArtifact(tvcPath)

	debugPath := filepath.Join(outputDir, prefix+".debug.json")
	if err := writeDebugMap(debugPath, linked.DebugMap); err != nil {
		return res, fail(req.Progress, StageAssemble, err)
	}
	res.DebugFile = debugPath
	res.addArtifact(debugPath)
	res.Timings.Set(StageAssemble, time.Since(assembleStart))
	emit(req.Progress, Event{Stage: StageAssemble, Status: StatusDone, Artifact: tvcPath, Elapsed: res.Timings.Duration(StageAssemble)})

	if req.InitData != "" {
		dataStart := time.Now()
		emit(req.Progress, Event{Stage: StageData, Status: StatusWorking})
		if err := patchContainerData(engine, tvcPath, string(contract.ABI), req.InitData); err != nil {
			return res, fail(req.Progress, StageData, err)
		}
		res.Timings.Set(StageData, time.Since(dataStart))
		emit(req.Progress, Event{Stage: StageData, Status: StatusDone, Artifact: tvcPath, Elapsed: res.Timings.Duration(StageData)})
	}

	return res, nil
}

// canonicalize resolves the input to an absolute, symlink-free path. The
// canonical form is the key everything else is tied to: the compiler reads
// the file under this path, reports diagnostics against it, and keys the
// per-file results by it.
func canonicalize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("missing input file")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize %q: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize %q: %w", path, err)
	}
	return resolved, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}

// invoke builds the request document and submits it. The read callback
// handed to the compiler records every file it fetches in the position
// index, which is what lets diagnostics be anchored later: a file is always
// indexed by the time a diagnostic can reference it.
func invoke(compiler solc.Compiler, index *source.Index, input string, req *Request) (*solc.Output, error) {
	request := solc.NewRequest(input, solc.RequestOpts{
		IncludePaths:      req.IncludePaths,
		MainContract:      req.Contract,
		ForceRemoteUpdate: req.RefreshRemote,
		WantAssembly:      req.wantAssembly(),
		FunctionIDs:       req.FunctionIDs,
	})
	encoded, err := request.Encode()
	if err != nil {
		return nil, err
	}
	logger.Debug("compiler request: %s", encoded)

	resolve := func(kind, path string) ([]byte, error) {
		if kind != "source" {
			return nil, fmt.Errorf("unknown kind %q", kind)
		}
		content, err := os.ReadFile(path) // #nosec G304 -- the compiler resolves import paths itself
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %v", err)
		}
		index.Record(path, content)
		logger.Debug("read %s (%d bytes)", path, len(content))
		return content, nil
	}

	raw, err := compiler.Compile(encoded, resolve)
	if err != nil {
		return nil, fmt.Errorf("compiler invocation failed: %w", err)
	}
	return solc.ParseOutput(raw)
}

func printFunctionIDs(w io.Writer, contract *solc.Contract) error {
	ids := contract.FunctionIDs
	if ids == nil {
		ids = json.RawMessage("null")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, ids, "", "  "); err != nil {
		return fmt.Errorf("%w: malformed functionIds", solc.ErrBadResponse)
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}

// writeASTDump collects every source's AST node, in file-key order, into one
// JSON array. Every compiled source must carry one; a missing node means the
// response does not match the protocol.
func writeASTDump(path string, out *solc.Output, pretty bool) error {
	keys := make([]string, 0, len(out.Sources))
	for k := range out.Sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	asts := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		ast := out.Sources[k].AST
		if ast == nil {
			return fmt.Errorf("%w: no ast for source %q", solc.ErrBadResponse, k)
		}
		asts = append(asts, ast)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(asts); err != nil {
		return fmt.Errorf("failed to encode ast dump: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeABI(path string, contract *solc.Contract) error {
	if contract.ABI == nil {
		return fmt.Errorf("%w: selected contract has no abi", solc.ErrBadResponse)
	}
	var buf bytes.Buffer
	if err := abi.WriteCanonical(&buf, contract.ABI); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// openSession feeds the assembler its inputs: the runtime library first
// (embedded or the caller's replacement), the fresh assembly after it.
func openSession(engine tvmasm.Engine, req *Request, codePath string, assembly []byte, contract *solc.Contract) (tvmasm.Session, error) {
	var inputs []tvmasm.Input
	if req.Lib != "" {
		lib, err := os.ReadFile(req.Lib)
		if err != nil {
			return nil, fmt.Errorf("failed to read library %s: %w", req.Lib, err)
		}
		inputs = append(inputs, tvmasm.Input{Name: req.Lib, Content: lib})
	} else {
		inputs = append(inputs, tvmasm.Input{Name: stdlib.FileName, Content: stdlib.Library()})
	}
	inputs = append(inputs, tvmasm.Input{Name: codePath, Content: assembly})

	session, err := engine.NewSession(inputs, string(contract.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse assembly: %w", err)
	}
	return session, nil
}

// bindKeypair handles the deprecated key options. The two paths are mutually
// exclusive at the flag level, so at most one of them is set here.
func bindKeypair(session tvmasm.Session, req *Request, res *Result) error {
	switch {
	case req.GenKeyFile != "":
		kp, err := keyman.Generate()
		if err != nil {
			return err
		}
		public := req.GenKeyFile + ".pub"
		if err := kp.StorePublic(public); err != nil {
			return err
		}
		if err := kp.StoreSecret(req.GenKeyFile); err != nil {
			return err
		}
		res.PublicFile = public
		res.SecretFile = req.GenKeyFile
		res.addArtifact(public)
		res.addArtifact(req.GenKeyFile)
		session.SetKeypair(kp)
	case req.SetKeyFile != "":
		kp, err := keyman.Load(req.SetKeyFile)
		if err != nil {
			return err
		}
		session.SetKeypair(kp)
	}
	return nil
}

func writeDebugMap(path string, debugMap json.RawMessage) error {
	if debugMap == nil {
		debugMap = json.RawMessage("null")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(debugMap); err != nil {
		return fmt.Errorf("failed to encode debug map: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// patchContainerData reloads the just-written container, merges the initial
// field values into its data cell by ABI field name, and overwrites the file
// with the re-encoded container.
func patchContainerData(engine tvmasm.Engine, tvcPath, abiDoc, params string) error {
	raw, err := os.ReadFile(tvcPath) // #nosec G304 -- path was produced by this run
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", tvcPath, err)
	}
	state, err := tvc.Load(raw)
	if err != nil {
		return err
	}
	patched, err := engine.UpdateContractData(abiDoc, params, state.DataBOC())
	if err != nil {
		return fmt.Errorf("failed to update contract data: %w", err)
	}
	if err := state.ReplaceData(patched); err != nil {
		return err
	}
	blob, err := state.Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(tvcPath, blob, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tvcPath, err)
	}
	return nil
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}

func fail(sink ProgressSink, stage Stage, err error) error {
	emit(sink, Event{Stage: stage, Status: StatusError, Err: err})
	return err
}
