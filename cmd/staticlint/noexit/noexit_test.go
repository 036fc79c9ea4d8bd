package noexit_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/Totarae/LinkRedirector/cmd/staticlint/noexit"
)

func TestNoExit(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), noexit.Analyzer, "mainpkg", "otherpkg")
}
