package ecs

import (
	"testing"

	"github.com/bobmcallan/volc-mcp/internal/tools"
)

func specByName(t *testing.T, name string) tools.Spec {
	t.Helper()
	for _, s := range Specs() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no spec named %s", name)
	return tools.Spec{}
}

func TestDescribeRegionsTakesNoRequiredArguments(t *testing.T) {
	s := specByName(t, "describe_regions")
	args, err := tools.Validate(s.Name, s.Params, nil)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(args) != 0 {
		t.Errorf("expected an empty parameter set, got %v", args)
	}
}

func TestDescribeInstancesPagesWithCursor(t *testing.T) {
	s := specByName(t, "describe_instances")
	args, err := tools.Validate(s.Name, s.Params, map[string]any{"InstanceIds": []any{"i-1"}})
	if err != nil {
		t.Fatal(err)
	}
	if args["MaxResults"] != 100 {
		t.Errorf("expected MaxResults default 100, got %v", args["MaxResults"])
	}
	if _, ok := args["NextToken"]; ok {
		t.Error("NextToken must not be sent unless supplied")
	}
}

func TestStateChangingActions(t *testing.T) {
	for _, name := range []string{"start_instance", "stop_instance", "reboot_instance"} {
		s := specByName(t, name)
		if s.ReadOnly {
			t.Errorf("%s must not be read-only", name)
		}
		if !s.AllowEmptyResult {
			t.Errorf("%s should accept an empty result", name)
		}
		if _, err := tools.Validate(s.Name, s.Params, nil); err == nil {
			t.Errorf("%s should require InstanceId", name)
		}
	}
	if s := specByName(t, "stop_instance"); !s.Destructive {
		t.Error("stop_instance should be marked destructive")
	}
}
