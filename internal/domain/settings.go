package domain

// SettingEmailNotifications is the key of the master switch for the
// post-publish email workflow in the CMS settings table.
const SettingEmailNotifications = "enable_email_notifications"

// NotificationSettings is the typed view of the notification-related
// settings rows. The raw store keeps loosely-typed string values; parsing
// into this struct happens once, at the boundary where settings are read.
type NotificationSettings struct {
	EmailEnabled bool
}

// ParseNotificationSettings maps the raw setting value to the typed config.
// The switch fails open: only an explicit "false" disables email
// notifications; any other value, or a missing row, means enabled.
func ParseNotificationSettings(raw string, found bool) NotificationSettings {
	if found && raw == "false" {
		return NotificationSettings{EmailEnabled: false}
	}
	return NotificationSettings{EmailEnabled: true}
}
