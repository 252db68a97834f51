package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将审判图布局输出为 JSON，便于调试或可视化。
func WriteDebugJSON(plan *TrialPlan, path string) error {
	if plan == nil {
		return nil
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
