package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/rigspec"
)

// LoadMode controls how errors are handled during rig loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the rigs compiled from a directory.
type LoadResult struct {
	Rigs      []ir.ChainSpec
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during rig loading.
type LoadError struct {
	Code    string
	Rig     string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Rig != "" {
		msg = fmt.Sprintf("rig %s: %s", e.Rig, e.Message)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// LoadRigs loads the CUE package in dir and compiles every entry under the
// top-level "rig" struct, in source order.
//
//	rig: arm: {start: "shoulder", end: "wrist"}
//	rig: spine: {start: "spine1", end: "spine5", topology: "spline", curve: "spine_crv"}
func LoadRigs(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rigs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing rigs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	rigsVal := value.LookupPath(cue.ParsePath("rig"))
	if !rigsVal.Exists() {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: "no rig definitions found"}}
	}

	iter, err := rigsVal.Fields()
	if err != nil {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating rigs: %v", err)}}
	}
	for iter.Next() {
		name := iter.Label()
		spec, err := rigspec.CompileChain(iter.Value())
		if err != nil {
			errs = append(errs, convertCompileError(err, name))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Rigs = append(result.Rigs, *spec)
	}

	if len(result.Rigs) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no rig definitions found"})
	}
	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compile error to a LoadError with position info.
func convertCompileError(err error, rig string) *LoadError {
	var compileErr *rigspec.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Rig:     rig,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Rig:     rig,
		Message: err.Error(),
	}
}

// Error code constants, unified across all CLI commands. Rig definition
// codes E101-E107 come from rigspec.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeSceneFailed = "E007" // Scene database error
	ErrCodeBadInput    = "E008" // Malformed command input
)

// MapFieldToErrorCode maps a compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "start", "end":
		return rigspec.ErrEndpointEmpty
	case "soft_distance":
		return rigspec.ErrSoftDistanceNegative
	default:
		return ErrCodeGeneric
	}
}
