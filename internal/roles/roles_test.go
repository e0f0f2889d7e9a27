package roles

import (
	"reflect"
	"testing"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"1702502", []int{1702502}, false},
		{"1, 2,3 ,", []int{1, 2, 3}, false},
		{"1,u2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIDList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIDList(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIDList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatic_HasRole(t *testing.T) {
	checker := NewStatic(map[Role][]int{
		Member:        {1, 2},
		ElectionAdmin: {2},
	})

	tests := []struct {
		user int
		role Role
		want bool
	}{
		{1, Member, true},
		{1, ElectionAdmin, false},
		{2, ElectionAdmin, true},
		{3, Member, false},
		{2, TaskmasterAdmin, false},
	}
	for _, tt := range tests {
		if got := checker.HasRole(tt.user, tt.role); got != tt.want {
			t.Errorf("HasRole(%d, %s) = %v, want %v", tt.user, tt.role, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	checker := NewStatic(map[Role][]int{
		Member:          {2},
		ElectionAdmin:   {2},
		TaskmasterAdmin: {9},
	})

	p := Resolve(checker, 2, "Ada")

	if p.ID != 2 || p.Name != "Ada" {
		t.Errorf("unexpected principal %+v", p)
	}
	if !p.Has(Member) || !p.Has(ElectionAdmin) || p.Has(TaskmasterAdmin) {
		t.Errorf("unexpected roles %v", p.RoleNames())
	}
	if got := p.RoleNames(); !reflect.DeepEqual(got, []string{"election_admin", "member"}) {
		t.Errorf("RoleNames() = %v", got)
	}
}

func TestResolve_NoRoles(t *testing.T) {
	p := Resolve(NewStatic(nil), 5, "Guest")
	if p.Has(Member) || len(p.RoleNames()) != 0 {
		t.Errorf("expected no roles, got %v", p.RoleNames())
	}
}
