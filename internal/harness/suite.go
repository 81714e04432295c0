package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SuiteResult summarizes a set of scenario files.
type SuiteResult struct {
	Total     int              `json:"total"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Scenarios []ScenarioReport `json:"scenarios"`
}

// ScenarioReport is the outcome of one scenario file.
type ScenarioReport struct {
	Path     string   `json:"path"`
	Scenario string   `json:"scenario,omitempty"`
	Pass     bool     `json:"pass"`
	Errors   []string `json:"errors,omitempty"`
}

// Failures returns the reports of failed scenarios.
func (r *SuiteResult) Failures() []ScenarioReport {
	var out []ScenarioReport
	for _, s := range r.Scenarios {
		if !s.Pass {
			out = append(out, s)
		}
	}
	return out
}

// FindScenarios returns the .yaml and .yml files under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find scenarios in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// RunSuite loads and runs every scenario file in paths. A file that fails
// to load counts as a failed scenario.
func RunSuite(paths []string, opts ...Option) *SuiteResult {
	res := &SuiteResult{Total: len(paths), Scenarios: make([]ScenarioReport, 0, len(paths))}
	for _, path := range paths {
		report := runFile(path, opts)
		if report.Pass {
			res.Passed++
		} else {
			res.Failed++
		}
		res.Scenarios = append(res.Scenarios, report)
	}
	return res
}

func runFile(path string, opts []Option) ScenarioReport {
	scenario, err := LoadScenario(path)
	if err != nil {
		return ScenarioReport{Path: path, Errors: []string{err.Error()}}
	}
	result, err := Run(scenario, opts...)
	if err != nil {
		return ScenarioReport{Path: path, Scenario: scenario.Name, Errors: []string{err.Error()}}
	}
	return ScenarioReport{Path: path, Scenario: scenario.Name, Pass: result.Pass, Errors: result.Errors}
}
