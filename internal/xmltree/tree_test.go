package xmltree

import (
	"reflect"
	"testing"
)

func TestParseNested(t *testing.T) {
	raw := []byte(`<root><a><b>value</b></a></root>`)
	tree, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := tree.Child("root").Child("a").Str("b"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte(`<root><unclosed>`)); err == nil {
		t.Fatalf("expected error for malformed XML")
	}
}

func TestStrMissingAndNonLeaf(t *testing.T) {
	tree := Node{"a": map[string]any{"b": "x"}}
	if got := tree.Str("a"); got != "" {
		t.Fatalf("expected empty string for non-leaf, got %q", got)
	}
	if got := tree.Str("missing"); got != "" {
		t.Fatalf("expected empty string for missing key, got %q", got)
	}
	var nilNode Node
	if got := nilNode.Str("a"); got != "" {
		t.Fatalf("expected empty string on nil node, got %q", got)
	}
}

func TestChildNil(t *testing.T) {
	tree := Node{"leaf": "x"}
	if tree.Child("leaf") != nil {
		t.Fatalf("expected nil child for leaf value")
	}
	if tree.Child("missing") != nil {
		t.Fatalf("expected nil child for missing key")
	}
}

func TestListSingletonAndSequence(t *testing.T) {
	single, err := Parse([]byte(`<root><item><v>1</v></item></root>`))
	if err != nil {
		t.Fatalf("Parse single: %v", err)
	}
	multi, err := Parse([]byte(`<root><item><v>1</v></item><item><v>2</v></item></root>`))
	if err != nil {
		t.Fatalf("Parse multi: %v", err)
	}

	singleList := single.Child("root").List("item")
	if len(singleList) != 1 {
		t.Fatalf("expected singleton normalized to one element, got %d", len(singleList))
	}
	multiList := multi.Child("root").List("item")
	if len(multiList) != 2 {
		t.Fatalf("expected two elements, got %d", len(multiList))
	}

	// The first element of a sequence and a bare singleton must look
	// identical downstream.
	if !reflect.DeepEqual(singleList[0], multiList[0]) {
		t.Fatalf("singleton element differs from first sequence element: %v vs %v", singleList[0], multiList[0])
	}
}

func TestListAbsent(t *testing.T) {
	tree := Node{"a": "leaf"}
	if got := tree.List("a"); got != nil {
		t.Fatalf("expected nil for leaf value, got %v", got)
	}
	if got := tree.List("missing"); got != nil {
		t.Fatalf("expected nil for missing key, got %v", got)
	}
}
