package domain

import "time"

// CommunicationChannel enumerates contact channels.
type CommunicationChannel string

const (
	ChannelEmail    CommunicationChannel = "email"
	ChannelWhatsApp CommunicationChannel = "whatsapp"
	ChannelLinkedIn CommunicationChannel = "linkedin"
	ChannelPhone    CommunicationChannel = "phone"
	ChannelOther    CommunicationChannel = "other"
)

// CommunicationDirection distinguishes outbound from inbound contact.
type CommunicationDirection string

const (
	DirectionOutbound CommunicationDirection = "outbound"
	DirectionInbound  CommunicationDirection = "inbound"
)

// CommunicationStatus enumerates delivery states for outbound email.
type CommunicationStatus string

const (
	CommStatusSent      CommunicationStatus = "sent"
	CommStatusDelivered CommunicationStatus = "delivered"
	CommStatusOpened    CommunicationStatus = "opened"
	CommStatusClicked   CommunicationStatus = "clicked"
	CommStatusBounced   CommunicationStatus = "bounced"
	CommStatusFailed    CommunicationStatus = "failed"
)

// CommunicationChannels lists valid contact channels.
var CommunicationChannels = []CommunicationChannel{ChannelEmail, ChannelWhatsApp, ChannelLinkedIn, ChannelPhone, ChannelOther}

// CommunicationDirections lists valid directions.
var CommunicationDirections = []CommunicationDirection{DirectionOutbound, DirectionInbound}

// CommunicationStatuses lists valid delivery states.
var CommunicationStatuses = []CommunicationStatus{CommStatusSent, CommStatusDelivered, CommStatusOpened, CommStatusClicked, CommStatusBounced, CommStatusFailed}

// Communication is an append-only audit record of contact with a tester.
type Communication struct {
	ID           int
	TesterID     int
	TesterName   string
	Channel      CommunicationChannel
	Direction    CommunicationDirection
	Subject      string
	Content      string
	TemplateName string
	Status       CommunicationStatus
	SentAt       time.Time
	OpenedAt     *time.Time
	ClickedAt    *time.Time
	CreatedAt    time.Time
}
