// internal/loan/persist/mask.go
package persist

import "strings"

// PII fields masked before leaving the admin surface.
const (
	fieldName  = "Customer_Name"
	fieldEmail = "Customer_Email"
	fieldPhone = "Customer_Phone"
)

// MaskProfile returns a copy of the profile with contact details redacted:
// names keep initials, emails keep the first character and domain, phones
// keep the last four digits.
func MaskProfile(profile map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(profile))
	for k, v := range profile {
		masked[k] = v
	}

	if name, ok := masked[fieldName].(string); ok {
		masked[fieldName] = maskName(name)
	}
	if email, ok := masked[fieldEmail].(string); ok {
		masked[fieldEmail] = maskEmail(email)
	}
	if phone, ok := masked[fieldPhone].(string); ok {
		masked[fieldPhone] = maskPhone(phone)
	}
	return masked
}

func maskName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = w[:1] + "***"
	}
	return strings.Join(words, " ")
}

func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

func maskPhone(phone string) string {
	if len(phone) < 4 {
		return "***"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
