package model

// Status is the coarse screen-time state of a child.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusLocked  Status = "locked"

	// StatusUnknown is what ParseStatus returns for unrecognised input.
	StatusUnknown Status = "unknown"
)

// AllStatuses lists every known status. Classifiers must handle each entry.
var AllStatuses = []Status{StatusOK, StatusWarning, StatusLocked}

// ParseStatus maps s to a known Status, or StatusUnknown.
func ParseStatus(s string) Status {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st
		}
	}
	return StatusUnknown
}

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationWarning NotificationType = "warning"
	NotificationRequest NotificationType = "request"
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"

	NotificationUnknown NotificationType = "unknown"
)

// AllNotificationTypes lists every known notification type.
var AllNotificationTypes = []NotificationType{
	NotificationWarning,
	NotificationRequest,
	NotificationSuccess,
	NotificationInfo,
}

// ParseNotificationType maps s to a known type, or NotificationUnknown.
func ParseNotificationType(s string) NotificationType {
	for _, t := range AllNotificationTypes {
		if string(t) == s {
			return t
		}
	}
	return NotificationUnknown
}

// RuleType tags the kind of a Rule.
type RuleType string

const (
	RuleDailyLimit RuleType = "daily_limit"
	RuleBedtime    RuleType = "bedtime"
	RuleAppBlock   RuleType = "app_block"

	RuleUnknown RuleType = "unknown"
)

// AllRuleTypes lists every known rule type.
var AllRuleTypes = []RuleType{RuleDailyLimit, RuleBedtime, RuleAppBlock}

// ParseRuleType maps s to a known type, or RuleUnknown.
func ParseRuleType(s string) RuleType {
	for _, t := range AllRuleTypes {
		if string(t) == s {
			return t
		}
	}
	return RuleUnknown
}
