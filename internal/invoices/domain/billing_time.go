package invoices

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// BillingTimeLayout is the wire format of data_faturamento (no zone, like the column).
const BillingTimeLayout = "2006-01-02T15:04:05"

var billingTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	BillingTimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// BillingTime is the invoice reference timestamp.
type BillingTime struct {
	time.Time
}

// ParseBillingTime accepts RFC3339, zone-less ISO timestamps and plain dates.
// The column has no zone, so an offset is dropped and the wall-clock time kept.
func ParseBillingTime(value string) (time.Time, error) {
	for _, layout := range billingTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return wallClock(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("invoices: invalid billing time %q", value)
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// MarshalJSON renders the zone-less layout.
func (t BillingTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(BillingTimeLayout))
}

// UnmarshalJSON parses any layout accepted by ParseBillingTime.
func (t *BillingTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseBillingTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
