package glgpu

import "testing"

func TestNewSnapshotTargetRejectsEmptySize(t *testing.T) {
	// Rejected before any GL call, so no context is needed
	for _, size := range [][2]int32{{0, 10}, {10, 0}, {-1, 5}} {
		if tgt, err := NewSnapshotTarget(size[0], size[1]); err == nil || tgt != nil {
			t.Errorf("NewSnapshotTarget(%d, %d) = %v, %v; want error", size[0], size[1], tgt, err)
		}
	}
}
