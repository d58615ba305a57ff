package booking

import (
	"context"
	"testing"

	"studiofit/models"
)

func TestDebitConsumesOneClip(t *testing.T) {
	members := newFakeMemberRepo(clipMember("m1", 5, 10))
	svc := newLedger(newFakeBookingRepo(), members)

	if err := svc.Debit(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := members.clips("m1"); got != 4 {
		t.Errorf("clips = %d, want 4", got)
	}
}

func TestDebitSkipsAtZeroBalance(t *testing.T) {
	members := newFakeMemberRepo(clipMember("m1", 0, 10))
	svc := newLedger(newFakeBookingRepo(), members)

	if err := svc.Debit(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := members.clips("m1"); got != 0 {
		t.Errorf("balance must never go negative: clips = %d", got)
	}
}

func TestDebitIgnoresSubscriptionMembers(t *testing.T) {
	members := newFakeMemberRepo(subscriptionMember("m1"))
	svc := newLedger(newFakeBookingRepo(), members)

	if err := svc.Debit(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if members.members["m1"].ClipCard != nil {
		t.Error("debit created a clip card on a subscription member")
	}
}

func TestDebitUnknownMemberIsNoOp(t *testing.T) {
	svc := newLedger(newFakeBookingRepo(), newFakeMemberRepo())
	if err := svc.Debit(context.Background(), "ghost"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRefundReturnsOneClip(t *testing.T) {
	members := newFakeMemberRepo(clipMember("m1", 4, 10))
	svc := newLedger(newFakeBookingRepo(), members)

	if err := svc.Refund(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := members.clips("m1"); got != 5 {
		t.Errorf("clips = %d, want 5", got)
	}
}

func TestRefundCappedAtOriginalGrant(t *testing.T) {
	members := newFakeMemberRepo(clipMember("m1", 10, 10))
	svc := newLedger(newFakeBookingRepo(), members)

	if err := svc.Refund(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := members.clips("m1"); got != 10 {
		t.Errorf("refund above the grant minted clips: %d", got)
	}
}

func TestDebitRefundRoundTripConservesBalance(t *testing.T) {
	members := newFakeMemberRepo(clipMember("m1", 7, 10))
	svc := newLedger(newFakeBookingRepo(), members)

	for i := 0; i < 3; i++ {
		if err := svc.Debit(context.Background(), "m1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.Refund(context.Background(), "m1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := members.clips("m1"); got != 7 {
		t.Errorf("clips after round trips = %d, want 7", got)
	}
}

func TestEligibleForSeat(t *testing.T) {
	withClips := clipMember("a", 1, 10)
	exhausted := clipMember("b", 0, 10)
	sub := subscriptionMember("c")

	cases := []struct {
		name string
		m    *models.Member
		want bool
	}{
		{"clip card with balance", &withClips, true},
		{"clip card exhausted", &exhausted, false},
		{"subscription", &sub, true},
		{"nil member", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := eligibleForSeat(tc.m); got != tc.want {
				t.Errorf("eligibleForSeat = %v, want %v", got, tc.want)
			}
		})
	}
}
