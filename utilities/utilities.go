package utilities

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// GenerateNumericCode returns a zero padded random code of the given length
func GenerateNumericCode(digits int) (string, error) {
	max := big.NewInt(int64(math.Pow10(digits)))
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}

// MaskPhone hides the middle of a phone number for logs: 7999*****67
func MaskPhone(phone string) string {
	if len(phone) < 6 {
		return "***"
	}
	masked := []byte(phone)
	for i := 4; i < len(masked)-2; i++ {
		masked[i] = '*'
	}
	return string(masked)
}

func ContainsString(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

func ToDate(t time.Time) string {
	// changing the time format to "yyyy-mm-dd"
	return t.Format("2006-01-02")
}

func TimeNow() time.Time {
	return time.Now().UTC()
}

// ToDuration parses a config duration, falling back to def on garbage
func ToDuration(s string, def time.Duration) time.Duration {
	d, err := cast.ToDurationE(s)
	if err != nil || d <= 0 {
		if s != "" {
			logrus.WithError(err).Warnf("invalid duration %q, using %s", s, def)
		}
		return def
	}
	return d
}

// LoadLocation falls back to UTC when the zone database does not know name
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.WithError(err).Errorf("unknown timezone %s, using UTC", name)
		return time.UTC
	}
	return loc
}

// FormatMoney renders an amount the way payment gateways expect it: 1500.00
func FormatMoney(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
