package model_test

import (
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
)

func alertN(n int) model.Alert {
	return model.Alert{ID: types.EventID(fmt.Sprintf("evt-%d", n))}
}

func TestAlertRing(t *testing.T) {
	t.Run("newest first", func(t *testing.T) {
		ring := model.NewAlertRing(5)
		for i := 1; i <= 3; i++ {
			ring.Push(alertN(i))
		}
		list := ring.List()
		gt.Equal(t, 3, len(list))
		gt.Equal(t, types.EventID("evt-3"), list[0].ID)
		gt.Equal(t, types.EventID("evt-1"), list[2].ID)
	})

	t.Run("evicts oldest on overflow", func(t *testing.T) {
		ring := model.NewAlertRing(model.DefaultAlertCapacity)
		for i := 1; i <= 25; i++ {
			ring.Push(alertN(i))
		}
		list := ring.List()
		gt.Equal(t, 20, len(list))
		gt.Equal(t, 20, ring.Len())
		gt.Equal(t, types.EventID("evt-25"), list[0].ID)
		gt.Equal(t, types.EventID("evt-6"), list[19].ID)
	})

	t.Run("clear", func(t *testing.T) {
		ring := model.NewAlertRing(3)
		ring.Push(alertN(1))
		ring.Clear()
		gt.Equal(t, 0, ring.Len())
		gt.Equal(t, 0, len(ring.List()))

		ring.Push(alertN(2))
		gt.Equal(t, types.EventID("evt-2"), ring.List()[0].ID)
	})

	t.Run("non-positive capacity uses default", func(t *testing.T) {
		gt.Equal(t, model.DefaultAlertCapacity, model.NewAlertRing(0).Cap())
	})
}

func TestBadgeLabel(t *testing.T) {
	gt.Equal(t, "", model.BadgeLabel(0))
	gt.Equal(t, "3", model.BadgeLabel(3))
	gt.Equal(t, "9", model.BadgeLabel(9))
	gt.Equal(t, "9+", model.BadgeLabel(10))
}
