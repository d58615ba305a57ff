package models

import "time"

// Membership types.
const (
	MembershipSubscription = "subscription"
	MembershipClipCard     = "clip_card"
)

// Membership describes how a member pays for classes. Clip-card memberships
// carry a finite prepaid visit balance.
type Membership struct {
	Type                 string `bson:"type" json:"type"`
	ClipCardClips        int    `bson:"clip_card_clips,omitempty" json:"clipCardClips,omitempty"` // original grant
	ClipCardValidityDays int    `bson:"clip_card_validity_days,omitempty" json:"clipCardValidityDays,omitempty"`
}

// ClipCardStatus is the member's live prepaid-visit balance. It is mutated
// only by the booking service's resource accountant, in the same occurrence
// transaction as the triggering booking-status change.
type ClipCardStatus struct {
	RemainingClips int        `bson:"remaining_clips" json:"remainingClips"`
	ExpiryDate     *time.Time `bson:"expiry_date,omitempty" json:"expiryDate,omitempty"`
	LastUpdated    time.Time  `bson:"last_updated" json:"lastUpdated"`
}

// Member is a studio participant.
type Member struct {
	ID            string          `bson:"id" json:"id"`
	Name          string          `bson:"name" json:"name"`
	Email         string          `bson:"email" json:"email"`
	FCMToken      string          `bson:"fcm_token,omitempty" json:"-"`
	ShareBookings bool            `bson:"share_bookings" json:"shareBookings"` // opted into friend booking fan-out
	Connections   []string        `bson:"connections,omitempty" json:"connections,omitempty"`
	Membership    Membership      `bson:"membership" json:"membership"`
	ClipCard      *ClipCardStatus `bson:"clip_card,omitempty" json:"clipCard,omitempty"`
}
