package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestPlanTrialRegions(t *testing.T) {
	plan, err := PlanTrial(3)
	if err != nil {
		t.Fatalf("PlanTrial: %v", err)
	}
	if len(plan.Options) != 3 {
		t.Fatalf("expected 3 option slots, got %d", len(plan.Options))
	}
	if plan.Portrait.X0 != PortraitX || plan.Portrait.X1 != TrialWidth || plan.Portrait.Y1 != TrialHeight {
		t.Fatalf("unexpected portrait region: %+v", plan.Portrait)
	}
	for i, slot := range plan.Options {
		if slot.Box.Width() != OptionWidth || slot.Box.Height() != OptionHeight {
			t.Fatalf("slot %d: unexpected box %+v", i, slot.Box)
		}
		if slot.Text.X0 != slot.Anchor.X+TextOffsetX || slot.Text.Y0 != slot.Anchor.Y+TextOffsetY {
			t.Fatalf("slot %d: unexpected text offset %+v", i, slot.Text)
		}
		if slot.Text.Width() != TextWidth || slot.Text.Height() != TextHeight {
			t.Fatalf("slot %d: unexpected text size %+v", i, slot.Text)
		}
		if slot.Icon.Y0 != slot.Anchor.Y+StatementOffsetY || slot.Icon.Width() != StatementIconWidth {
			t.Fatalf("slot %d: unexpected icon region %+v", i, slot.Icon)
		}
	}
	if plan.TextStyle.MaxFontHeight != MaxFontHeight {
		t.Fatalf("unexpected max font height %g", plan.TextStyle.MaxFontHeight)
	}
	if plan.TextStyle.SpanColor() == plan.TextStyle.Color {
		t.Fatalf("bracket color should differ from text color")
	}
}

func TestPlanTrialPropagatesCountError(t *testing.T) {
	if _, err := PlanTrial(0); err == nil {
		t.Fatalf("0 options should fail")
	}
	if _, err := PlanTrial(MaxOptions + 1); err == nil {
		t.Fatalf("%d options should fail", MaxOptions+1)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	plan, err := PlanTrial(2)
	if err != nil {
		t.Fatalf("PlanTrial: %v", err)
	}
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := WriteDebugJSON(plan, path); err != nil {
		t.Fatalf("WriteDebugJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read debug JSON: %v", err)
	}
	var decoded TrialPlan
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode debug JSON: %v", err)
	}
	if len(decoded.Options) != 2 || decoded.Options[1].Anchor != plan.Options[1].Anchor {
		t.Fatalf("debug JSON mismatch: %+v", decoded.Options)
	}
}

func TestSignTextStyleFallsBack(t *testing.T) {
	style := TextStyle{Color: RGB(1, 2, 3)}
	if style.SpanColor() != style.Color {
		t.Fatalf("span color should fall back to text color")
	}
	if SignRegion().Width() != SignRegionWidth || SignRegion().Height() != SignRegionHeight {
		t.Fatalf("unexpected sign region: %+v", SignRegion())
	}
}
