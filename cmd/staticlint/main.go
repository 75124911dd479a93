// Command staticlint runs the project's static analysis suite: a curated
// set of go/analysis passes, third-party analyzers, staticcheck checks and
// the project-specific noexit analyzer.
//
// Staticcheck analyzers are enabled by name from staticlint.json placed
// next to the binary:
//
//	{"staticcheck": ["SA1000", "SA4006", "S1002", "ST1005"]}
//
// When the file is absent every SA analyzer is enabled.
//
// Usage:
//
//	staticlint ./...
package main

import (
	// Standard analyzers from the Go toolchain.
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"

	// Third-party analyzers.
	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/patric-chuzhbe/bookstore/cmd/staticlint/noexit"

	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
)

// ConfigFileName is looked up in the directory of the executable.
const ConfigFileName = `staticlint.json`

// ConfigData lists the enabled staticcheck, simple and stylecheck analyzers.
type ConfigData struct {
	Staticcheck []string `json:"staticcheck"`
}

func main() {
	enabled, err := loadEnabledChecks()
	if err != nil {
		panic(err)
	}

	myChecks := []*analysis.Analyzer{
		copylock.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		noexit.Analyzer,
	}

	for _, v := range staticcheck.Analyzers {
		if enabled(v.Analyzer.Name) {
			myChecks = append(myChecks, v.Analyzer)
		}
	}
	for _, v := range simple.Analyzers {
		if enabled(v.Analyzer.Name) {
			myChecks = append(myChecks, v.Analyzer)
		}
	}
	for _, v := range stylecheck.Analyzers {
		if enabled(v.Analyzer.Name) {
			myChecks = append(myChecks, v.Analyzer)
		}
	}

	multichecker.Main(myChecks...)
}

func loadEnabledChecks() (func(string) bool, error) {
	appfile, err := os.Executable()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(appfile), ConfigFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return func(name string) bool {
			return strings.HasPrefix(name, "SA")
		}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg ConfigData
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	checks := make(map[string]bool, len(cfg.Staticcheck))
	for _, name := range cfg.Staticcheck {
		checks[name] = true
	}

	return func(name string) bool {
		return checks[name]
	}, nil
}
