// Package main собирает multichecker для проверки проекта.
//
// Состав:
//   - анализаторы golang.org/x/tools/go/analysis/passes: shadow, structtag,
//     nilness, fieldalignment, printf, errorsas, copylock, lostcancel;
//   - все SA-анализаторы staticcheck, S1000 из simple и U1000 из unused;
//   - bodyclose (незакрытые тела HTTP-ответов в тестах редиректа);
//   - noexit: запрет os.Exit в функции main.
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/fieldalignment"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/unused"

	"github.com/Totarae/LinkRedirector/cmd/staticlint/noexit"
)

// simpleChecks — выбранные анализаторы из набора simple.
var simpleChecks = map[string]bool{
	"S1000": true, // одиночный case в select
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		shadow.Analyzer,
		structtag.Analyzer,
		nilness.Analyzer,
		fieldalignment.Analyzer,
		printf.Analyzer,
		errorsas.Analyzer,
		copylock.Analyzer,
		lostcancel.Analyzer,
		bodyclose.Analyzer,
		noexit.Analyzer,
		unused.Analyzer.Analyzer, // U1000
	}

	for _, a := range staticcheck.Analyzers {
		if strings.HasPrefix(a.Analyzer.Name, "SA") {
			list = append(list, a.Analyzer)
		}
	}
	for _, a := range simple.Analyzers {
		if simpleChecks[a.Analyzer.Name] {
			list = append(list, a.Analyzer)
		}
	}
	return list
}

func main() {
	multichecker.Main(analyzers()...)
}
