package repositories

import "testing"

func TestPresenceKey(t *testing.T) {
	if got := presenceKey(42); got != "chatroom:42:presence" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestDecrementOutcome(t *testing.T) {
	cases := []struct {
		name    string
		result  int64
		count   int64
		removed bool
	}{
		{"absent counter is a no-op", -1, 0, false},
		{"last connection removes", 0, 0, true},
		{"remaining connections keep the counter", 2, 2, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			count, removed := decrementOutcome(tc.result)
			if count != tc.count || removed != tc.removed {
				t.Fatalf("decrementOutcome(%d) = (%d, %v), want (%d, %v)", tc.result, count, removed, tc.count, tc.removed)
			}
		})
	}
}
