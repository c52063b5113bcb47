package models

import (
	"sort"
	"time"
)

type RSVPStatus string

const (
	RSVPInvited   RSVPStatus = "invited"
	RSVPAttending RSVPStatus = "attending"
	RSVPDeclined  RSVPStatus = "declined"
)

type Event struct {
	ID            string                `bson:"_id" json:"id"`
	OrganizerID   string                `bson:"organizer_id" json:"organizer_id"`
	OrganizerName string                `bson:"organizer_name" json:"organizer"`
	Title         string                `bson:"title" json:"title"`
	Description   string                `bson:"description" json:"description"`
	Location      string                `bson:"location" json:"location"`
	Date          string                `bson:"date" json:"date"`
	Time          string                `bson:"time" json:"time"`
	RSVPs         map[string]RSVPStatus `bson:"rsvps" json:"rsvps"`
	CreatedAt     time.Time             `bson:"created_at" json:"created_at"`
}

// UsersWith returns the sorted ids of users whose RSVP equals status.
func (e Event) UsersWith(status RSVPStatus) []string {
	ids := []string{}
	for userID, s := range e.RSVPs {
		if s == status {
			ids = append(ids, userID)
		}
	}
	sort.Strings(ids)
	return ids
}
