package styles

import "testing"

func TestSelectorMatches(t *testing.T) {
	para := Target{TypeName: "Paragraph", StyleNames: []string{"intro"}}
	section := Target{TypeName: "Section", ID: "overview"}
	root := Target{TypeName: "RootElement"}
	ancestors := []Target{section, root}

	tests := []struct {
		name string
		sel  Selector
		want bool
	}{
		{"type", Selector{TypeName: "Paragraph"}, true},
		{"wrong type", Selector{TypeName: "Header"}, false},
		{"style", Selector{StyleNames: []string{"intro"}}, true},
		{"missing style", Selector{StyleNames: []string{"intro", "lead"}}, false},
		{"id on target", Selector{ID: "overview"}, false},
		{
			"immediate parent",
			Selector{TypeName: "Paragraph", Parent: &ParentSelector{Selector: Selector{ID: "overview"}, Immediate: true}},
			true,
		},
		{
			"immediate parent wrong level",
			Selector{TypeName: "Paragraph", Parent: &ParentSelector{Selector: Selector{TypeName: "RootElement"}, Immediate: true}},
			false,
		},
		{
			"ancestor anywhere",
			Selector{TypeName: "Paragraph", Parent: &ParentSelector{Selector: Selector{TypeName: "RootElement"}}},
			true,
		},
	}
	for _, tt := range tests {
		if got := tt.sel.Matches(para, ancestors); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// An id predicate must outrank any number of style/type predicates
// regardless of declaration order.
func TestSpecificity_IDOutranksStyles(t *testing.T) {
	target := Target{TypeName: "Paragraph", ID: "p1", StyleNames: []string{"note", "wide"}}

	set := NewSet(
		Declaration{Selector: Selector{ID: "p1"}, Styles: map[string]string{"color": "id-wins"}},
		Declaration{
			Selector: Selector{TypeName: "Paragraph", StyleNames: []string{"note", "wide"}},
			Styles:   map[string]string{"color": "styles"},
		},
	)
	got := set.Collect(target, nil)
	if got["color"] != "id-wins" {
		t.Errorf("color = %q, want id-wins", got["color"])
	}
}

func TestSpecificity_TieBrokenByOrder(t *testing.T) {
	target := Target{TypeName: "Paragraph"}
	set := NewSet(
		Declaration{Selector: Selector{TypeName: "Paragraph"}, Styles: map[string]string{"color": "first"}},
		Declaration{Selector: Selector{TypeName: "Paragraph"}, Styles: map[string]string{"color": "second"}},
	)
	if got := set.Collect(target, nil); got["color"] != "second" {
		t.Errorf("color = %q, want second (later declaration wins ties)", got["color"])
	}
}

func TestCollect_MergesAcrossDeclarations(t *testing.T) {
	target := Target{TypeName: "Header", StyleNames: []string{"title"}}
	set := NewSet(
		Declaration{Selector: Selector{TypeName: "Header"}, Styles: map[string]string{"size": "12", "weight": "normal"}},
		Declaration{Selector: Selector{StyleNames: []string{"title"}}, Styles: map[string]string{"weight": "bold"}},
	)
	got := set.Collect(target, nil)
	if got["size"] != "12" {
		t.Errorf("size = %q, want 12", got["size"])
	}
	if got["weight"] != "bold" {
		t.Errorf("weight = %q, want bold (style predicate outranks type)", got["weight"])
	}
}

func TestSpecificityCompare(t *testing.T) {
	id := Selector{ID: "x"}.Specificity()
	style := Selector{StyleNames: []string{"a", "b"}}.Specificity()
	typ := Selector{TypeName: "Paragraph"}.Specificity()

	if id.Compare(style) <= 0 {
		t.Error("one id must outrank two style names")
	}
	if style.Compare(typ) <= 0 {
		t.Error("style names must outrank a type predicate")
	}
	// Parent selectors contribute to specificity.
	withParent := Selector{TypeName: "Paragraph", Parent: &ParentSelector{Selector: Selector{ID: "s"}}}.Specificity()
	if withParent.Compare(id) <= 0 {
		t.Error("parent id plus type must outrank a bare id")
	}
}
