package calendar

import (
	"testing"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"

	apperrors "github.com/matzehuels/timestack/pkg/errors"
)

func TestFormat(t *testing.T) {
	us := UTC()
	de := MustNew(Options{Locale: "de-DE"})

	// Sunday, 22 December 2024, 23:59:59.
	ref := Fields{Year: 2024, Month: 12, Day: 22, Hour: 23, Minute: 59, Second: 59}
	morning := Fields{Year: 2024, Month: 3, Day: 5, Hour: 9, Minute: 5}

	tests := []struct {
		name   string
		cal    *Calendar
		fields Fields
		format Format
		want   string
	}{
		{"us hm", us, ref, Format{Hour: Numeric, Minute: Numeric}, "11:59 PM"},
		{"us hms", us, ref, Format{Hour: Numeric, Minute: Numeric, Second: Numeric}, "11:59:59 PM"},
		{"us hm morning", us, morning, Format{Hour: Numeric, Minute: Numeric}, "9:05 AM"},
		{"us forced 24h", us, morning, Format{Hour: Numeric, Minute: Numeric, Hour12: Bool(false)}, "09:05"},
		{"de hm", de, ref, Format{Hour: Numeric, Minute: Numeric}, "23:59"},
		{"us month day", us, ref, Format{Month: Short, Day: Numeric}, "Dec 22"},
		{"us ymd", us, ref, Format{Year: Numeric, Month: Short, Day: Numeric}, "Dec 22, 2024"},
		{"us ym", us, ref, Format{Year: Numeric, Month: Short}, "Dec 2024"},
		{"us month only", us, ref, Format{Month: Short}, "Dec"},
		{"us long month", us, ref, Format{Month: Long}, "December"},
		{"us narrow month", us, ref, Format{Month: Narrow}, "D"},
		{"us day only", us, ref, Format{Day: Numeric}, "22"},
		{"us year only", us, ref, Format{Year: Numeric}, "2024"},
		{"us two digit year", us, ref, Format{Year: TwoDigit}, "24"},
		{"us numeric default", us, ref, Format{}, "12/22/2024"},
		{"de numeric default", de, ref, Format{}, "22.12.2024"},
		{"de long month", de, ref, Format{Month: Long}, "Dezember"},
		{"us weekday", us, ref, Format{Weekday: Short}, "Sun"},
		{"us narrow weekday", us, ref, Format{Weekday: Narrow}, "S"},
		{"us weekday date", us, ref, Format{Weekday: Long, Month: Short, Day: Numeric}, "Sunday, Dec 22"},
		{"us date time", us, morning, Format{Month: Short, Day: Numeric, Hour: Numeric, Minute: Numeric}, "Mar 5, 9:05 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt := mustFields(t, tt.cal, tt.fields)
			if got := dt.Format(tt.format); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.format.Key(), got, tt.want)
			}
		})
	}
}

func TestFormatPatch(t *testing.T) {
	hm := Format{Hour: Numeric, Minute: Numeric}
	md := Format{Month: Short, Day: Numeric}

	patch := Format{Minute: TwoDigit, Month: Long, Hour12: Bool(false)}

	gotHM := hm.Patch(patch)
	if gotHM.Minute != TwoDigit || gotHM.Month != "" {
		t.Errorf("Patch(hm) = %+v, want minute 2-digit and no month", gotHM)
	}
	if gotHM.Hour12 == nil || *gotHM.Hour12 {
		t.Error("Patch(hm) should apply hour12 because hm shows the hour")
	}

	gotMD := md.Patch(patch)
	if gotMD.Month != Long || gotMD.Minute != "" {
		t.Errorf("Patch(md) = %+v, want long month and no minute", gotMD)
	}
	if gotMD.Hour12 != nil {
		t.Error("Patch(md) must not set hour12 on a format without hour")
	}

	if hm.Minute != Numeric || hm.Hour12 != nil {
		t.Error("Patch must not modify the receiver")
	}
	if *patch.Hour12 {
		t.Error("Patch must not share the patch's Hour12 pointer")
	}
}

func TestFormatKey(t *testing.T) {
	a := Format{Hour: Numeric, Minute: Numeric}
	b := Format{Minute: Numeric, Hour: Numeric}
	if a.Key() != b.Key() {
		t.Errorf("equal formats should share a key: %s vs %s", a.Key(), b.Key())
	}
	if a.Key() == (Format{Hour: Numeric}).Key() {
		t.Error("different formats should have different keys")
	}
	h12 := Format{Hour: Numeric, Minute: Numeric, Hour12: Bool(true)}
	if a.Key() == h12.Key() {
		t.Error("hour12 should be part of the key")
	}
}

func TestFormatValidate(t *testing.T) {
	if err := (Format{Month: Long, Weekday: Narrow, Hour: TwoDigit}).Validate(); err != nil {
		t.Errorf("valid format rejected: %v", err)
	}
	bad := []Format{
		{Month: "full"},
		{Weekday: Numeric},
		{Hour: Long},
	}
	for _, f := range bad {
		if err := f.Validate(); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
			t.Errorf("Validate(%+v) = %v, want INVALID_FORMAT", f, err)
		}
	}
}

func TestFormatIsZero(t *testing.T) {
	if !(Format{}).IsZero() {
		t.Error("empty format should be zero")
	}
	if !(Format{Hour12: Bool(true)}).IsZero() {
		t.Error("hour12 alone displays nothing")
	}
	if (Format{Day: Numeric}).IsZero() {
		t.Error("day format is not zero")
	}
}

func TestResolveLocale(t *testing.T) {
	tests := []struct {
		tag   string
		names monday.Locale
		order dateOrder
		h12   bool
	}{
		{"en-US", monday.LocaleEnUS, orderMDY, true},
		{"en-GB", monday.LocaleEnGB, orderDMY, false},
		{"de", monday.LocaleDeDE, orderDMY, false},
		{"fr-CA", monday.LocaleFrCA, orderDMY, false},
		{"ja-JP", monday.LocaleJaJP, orderYMD, false},
		{"sw-KE", monday.LocaleEnUS, orderDMY, false},
	}
	for _, tt := range tests {
		names, style := resolveLocale(language.MustParse(tt.tag))
		if names != tt.names {
			t.Errorf("resolveLocale(%s) names = %s, want %s", tt.tag, names, tt.names)
		}
		if style.order != tt.order || style.hour12 != tt.h12 {
			t.Errorf("resolveLocale(%s) style = %+v", tt.tag, style)
		}
	}
}
