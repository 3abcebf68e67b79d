package test

import (
	"fmt"
	"testing"

	"github.com/hoistjs/hoist/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", fmt.Sprint(observed), fmt.Sprint(expected))
	}
}

func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA := fmt.Sprintf("%v", observed)
		stringB := fmt.Sprintf("%v", expected)
		t.Fatal("\n" + Diff(stringB, stringA, false))
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}
