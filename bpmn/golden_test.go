package bpmn

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestExportGolden(t *testing.T) {
	out, err := Export(flatProcess())
	if err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "flat_process", []byte(strings.TrimSpace(out)+"\n"))
}
