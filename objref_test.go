package objref

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

// Sharing references across goroutines is unsupported. The package must
// say so rather than appear race-safe.
func TestConcurrencyDocumentedUnsupported(t *testing.T) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "objref.go", nil, parser.ParseComments|parser.PackageClauseOnly)
	if err != nil {
		t.Fatalf("parse package doc: %v", err)
	}
	if f.Doc == nil {
		t.Fatal("package has no doc comment")
	}
	doc := f.Doc.Text()
	if !strings.Contains(doc, "# Concurrency") {
		t.Error("package doc has no Concurrency section")
	}
	if !strings.Contains(doc, "not safe for concurrent use") {
		t.Error("package doc does not state that objref is not safe for concurrent use")
	}
}

func TestRegistryDocumentedUnsupported(t *testing.T) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "registry.go", nil, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse registry.go: %v", err)
	}
	for _, c := range f.Comments {
		if strings.Contains(c.Text(), "Registry is not safe for concurrent use") {
			return
		}
	}
	t.Error("Registry doc does not state that it is not safe for concurrent use")
}
