package dto

import (
	notifDto "anoa.com/socialhub/internal/modules/notification/dto"
)

// FollowTransition is the follow request state change being announced.
type FollowTransition string

const (
	FollowRequested FollowTransition = "requested"
	FollowAccepted  FollowTransition = "accepted"
	FollowWithdrawn FollowTransition = "withdrawn"
)

func (t FollowTransition) Valid() bool {
	switch t {
	case FollowRequested, FollowAccepted, FollowWithdrawn:
		return true
	}
	return false
}

// ActivityResponse reports the stored notification and whether the recipient
// was reached in real time.
type ActivityResponse struct {
	Notification *notifDto.NotificationPayload `json:"notification"`
	Pushed       bool                          `json:"pushed"`
}
