package config

import (
	"regexp"

	"github.com/sirupsen/logrus"
)

var (
	adminPhones  map[string]struct{}
	phonePattern = regexp.MustCompile(`^7\d{10}$`)
)

func loadAdminPhones() {
	adminPhones = make(map[string]struct{})
	for _, phone := range GetConfig().AdminPhones {
		if !phonePattern.MatchString(phone) {
			logrus.Fatalf("admin_phones value %s has invalid format", phone)
		}
		adminPhones[phone] = struct{}{}
	}
}

// IsAdminPhone checks if the phone belongs to a catalog administrator
func IsAdminPhone(phone string) bool {
	_, present := adminPhones[phone]
	return present
}
