package enums

import "fmt"

// CampaignStatus tracks the lifecycle of an email campaign.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSent      CampaignStatus = "sent"
)

var validCampaignStatuses = []CampaignStatus{
	CampaignStatusDraft,
	CampaignStatusScheduled,
	CampaignStatusSent,
}

// String implements fmt.Stringer.
func (s CampaignStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CampaignStatus.
func (s CampaignStatus) IsValid() bool {
	for _, candidate := range validCampaignStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCampaignStatus converts raw input into a CampaignStatus.
func ParseCampaignStatus(value string) (CampaignStatus, error) {
	for _, candidate := range validCampaignStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid campaign status %q", value)
}

// CampaignAudience selects how the recipient list is resolved.
type CampaignAudience string

const (
	// CampaignAudienceSubscribers sends to every newsletter subscriber.
	CampaignAudienceSubscribers CampaignAudience = "subscribers"
	// CampaignAudienceCustom sends to the campaign's stored recipient list.
	CampaignAudienceCustom CampaignAudience = "custom"
)

var validCampaignAudiences = []CampaignAudience{
	CampaignAudienceSubscribers,
	CampaignAudienceCustom,
}

// String implements fmt.Stringer.
func (a CampaignAudience) String() string {
	return string(a)
}

// IsValid reports whether the value is a known CampaignAudience.
func (a CampaignAudience) IsValid() bool {
	for _, candidate := range validCampaignAudiences {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseCampaignAudience converts raw input into a CampaignAudience.
func ParseCampaignAudience(value string) (CampaignAudience, error) {
	for _, candidate := range validCampaignAudiences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid campaign audience %q", value)
}
