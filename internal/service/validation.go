package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "US"

// LeadValidationError indicates a lead capture payload failed validation.
type LeadValidationError struct {
	Message string
}

// Error implements the error interface.
func (e LeadValidationError) Error() string {
	return e.Message
}

// ContactValidator normalizes and validates the contact fields of incoming
// leads.
type ContactValidator struct {
	DefaultRegion string
}

// NewContactValidator builds a validator with the given default phone region.
func NewContactValidator(defaultRegion string) *ContactValidator {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactValidator{DefaultRegion: region}
}

// NormalizeEmail lowercases and validates an email address, including IDNA
// normalization of the domain part.
func (v *ContactValidator) NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	if !emailPattern.MatchString(email) {
		return "", LeadValidationError{Message: fmt.Sprintf("invalid email address: %s", raw)}
	}

	at := strings.LastIndex(email, "@")
	domain, err := idnaProfile.ToASCII(email[at+1:])
	if err != nil {
		return "", LeadValidationError{Message: fmt.Sprintf("invalid email domain: %s", raw)}
	}

	return email[:at+1] + domain, nil
}

// NormalizePhone parses a phone number and formats it as E.164. Numbers that
// cannot be parsed are returned trimmed but unmodified; a missing phone is
// an absent signal, not an error.
func (v *ContactValidator) NormalizePhone(raw string) string {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return ""
	}

	number, err := phonenumbers.Parse(phone, v.DefaultRegion)
	if err != nil {
		return phone
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return phone
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// NormalizeWebsite canonicalizes a website URL, defaulting the scheme to
// https. Unparseable input is returned trimmed.
func (v *ContactValidator) NormalizeWebsite(raw string) string {
	site := strings.TrimSpace(raw)
	if site == "" {
		return ""
	}

	candidate := site
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host == "" {
		return site
	}

	parsed.Host = strings.ToLower(parsed.Host)
	return parsed.String()
}
