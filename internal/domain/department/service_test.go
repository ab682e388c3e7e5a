package department

import "testing"

func TestBuildHierarchy(t *testing.T) {
	departments := []Department{
		{Code: "DP001", Name: "Management"},
		{Code: "DP002", Name: "Human Resources", ParentCode: "DP001"},
		{Code: "DP003", Name: "Engineering", ParentCode: "DP001"},
		{Code: "DP004", Name: "Platform", ParentCode: "DP003"},
		{Code: "DP009", Name: "Orphan", ParentCode: "DP999"},
	}

	roots := BuildHierarchy(departments)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots (management + orphan), got %d", len(roots))
	}

	management := roots[0]
	if management.Code != "DP001" || len(management.Children) != 2 {
		t.Fatalf("unexpected management node: %+v", management)
	}

	var engineering *Node
	for _, child := range management.Children {
		if child.Code == "DP003" {
			engineering = child
		}
	}
	if engineering == nil || len(engineering.Children) != 1 || engineering.Children[0].Code != "DP004" {
		t.Fatalf("expected DP004 nested under DP003, got %+v", engineering)
	}
}
