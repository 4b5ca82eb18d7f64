package orders

import (
	"testing"

	"github.com/yeezuz2020/store-api/pkg/enums"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from enums.OrderStatus
		to   enums.OrderStatus
		want bool
	}{
		{"forward step", enums.OrderStatusPending, enums.OrderStatusConfirmed, true},
		{"forward jump", enums.OrderStatusPaid, enums.OrderStatusShipped, true},
		{"regression", enums.OrderStatusDelivered, enums.OrderStatusPending, false},
		{"backward step", enums.OrderStatusShipped, enums.OrderStatusProcessing, false},
		{"cancel from pending", enums.OrderStatusPending, enums.OrderStatusCancelled, true},
		{"cancel from shipped", enums.OrderStatusShipped, enums.OrderStatusCancelled, true},
		{"cancel from delivered", enums.OrderStatusDelivered, enums.OrderStatusCancelled, false},
		{"revive cancelled", enums.OrderStatusCancelled, enums.OrderStatusPending, false},
		{"same status", enums.OrderStatusShipped, enums.OrderStatusShipped, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}
