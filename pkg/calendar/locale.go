package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

type dateOrder int

const (
	orderDMY dateOrder = iota
	orderMDY
	orderYMD
)

// localeStyle holds the few layout conventions labels need beyond the
// translated names.
type localeStyle struct {
	order  dateOrder
	sep    string
	hour12 bool
}

// nameLocales lists the monday locales names are taken from, in preference
// order for a language without an exact region match.
var nameLocales = []string{
	"en_US", "en_GB", "da_DK", "nl_NL", "nl_BE", "fi_FI", "fr_FR", "fr_CA",
	"de_DE", "hu_HU", "it_IT", "nb_NO", "nn_NO", "pl_PL", "pt_PT", "pt_BR",
	"ro_RO", "ru_RU", "es_ES", "ca_ES", "sv_SE", "tr_TR", "uk_UA", "bg_BG",
	"zh_CN", "zh_TW", "zh_HK", "ko_KR", "ja_JP", "el_GR", "id_ID", "cs_CZ",
	"sl_SI", "lt_LT", "et_EE", "hr_HR", "lv_LV", "sk_SK", "th_TH",
}

var (
	supportedNames = map[string]bool{}
	baseNames      = map[string]monday.Locale{}
)

func init() {
	for _, l := range nameLocales {
		supportedNames[l] = true
		base, _, _ := strings.Cut(l, "_")
		if _, ok := baseNames[base]; !ok {
			baseNames[base] = monday.Locale(l)
		}
	}
}

var (
	ymdLanguages    = map[string]bool{"ja": true, "zh": true, "ko": true, "hu": true, "lt": true}
	dottedLanguages = map[string]bool{
		"de": true, "ru": true, "fi": true, "pl": true, "cs": true, "uk": true, "nb": true,
		"nn": true, "da": true, "tr": true, "ro": true, "sk": true, "et": true, "lv": true,
		"hr": true, "sl": true, "bg": true, "hu": true,
	}
	hour12Regions = map[string]bool{"US": true, "CA": true, "AU": true, "NZ": true, "IN": true, "PH": true}
)

func resolveLocale(tag language.Tag) (monday.Locale, localeStyle) {
	base, _ := tag.Base()
	region, _ := tag.Region()
	b, r := base.String(), region.String()

	var names monday.Locale = monday.LocaleEnUS
	if supportedNames[b+"_"+r] {
		names = monday.Locale(b + "_" + r)
	} else if l, ok := baseNames[b]; ok {
		names = l
	}

	style := localeStyle{order: orderDMY, sep: "/"}
	switch {
	case ymdLanguages[b]:
		style.order = orderYMD
	case b == "en" && r == "US":
		style.order = orderMDY
	}
	if dottedLanguages[b] {
		style.sep = "."
	}
	style.hour12 = b == "en" && hour12Regions[r]
	return names, style
}

// Format renders dt with the given field options in its calendar's locale.
func (dt DateTime) Format(f Format) string {
	if dt.cal == nil {
		return ""
	}
	return dt.cal.render(dt.t, f)
}

func (c *Calendar) render(t time.Time, f Format) string {
	if f.IsZero() {
		f = Format{Year: Numeric, Month: Numeric, Day: Numeric, Hour12: f.Hour12}
	}
	date := c.renderDate(t, f)
	clock := c.renderTime(t, f)
	switch {
	case date == "":
		return clock
	case clock == "":
		return date
	}
	return date + ", " + clock
}

func (c *Calendar) renderDate(t time.Time, f Format) string {
	y, m, d := t.Date()

	var year, month, day string
	switch f.Year {
	case Numeric:
		year = fmt.Sprint(y)
	case TwoDigit:
		year = fmt.Sprintf("%02d", ((y%100)+100)%100)
	}
	textual := false
	switch f.Month {
	case Numeric:
		month = fmt.Sprint(int(m))
	case TwoDigit:
		month = fmt.Sprintf("%02d", int(m))
	case Short:
		month, textual = monday.Format(t, "Jan", c.names), true
	case Long:
		month, textual = monday.Format(t, "January", c.names), true
	case Narrow:
		month, textual = initial(monday.Format(t, "Jan", c.names)), true
	}
	switch f.Day {
	case Numeric:
		day = fmt.Sprint(d)
	case TwoDigit:
		day = fmt.Sprintf("%02d", d)
	}

	var s string
	if textual {
		switch c.style.order {
		case orderMDY:
			s = join(" ", month, day)
			if year != "" {
				if day != "" {
					s += ", " + year
				} else {
					s = join(" ", s, year)
				}
			}
		case orderYMD:
			s = join(" ", year, month, day)
		default:
			s = join(" ", day, month, year)
		}
	} else {
		switch c.style.order {
		case orderMDY:
			s = join(c.style.sep, month, day, year)
		case orderYMD:
			s = join(c.style.sep, year, month, day)
		default:
			s = join(c.style.sep, day, month, year)
		}
	}

	var weekday string
	switch f.Weekday {
	case Short:
		weekday = monday.Format(t, "Mon", c.names)
	case Long:
		weekday = monday.Format(t, "Monday", c.names)
	case Narrow:
		weekday = initial(monday.Format(t, "Mon", c.names))
	}
	if weekday != "" {
		if s == "" {
			return weekday
		}
		return weekday + ", " + s
	}
	return s
}

func (c *Calendar) renderTime(t time.Time, f Format) string {
	if !f.HasTime() {
		return ""
	}
	hour12 := c.style.hour12
	if f.Hour12 != nil {
		hour12 = *f.Hour12
	}

	h, mi, s := t.Clock()
	parts := make([]string, 0, 3)
	if f.Hour != "" {
		hv := h
		if hour12 {
			hv = h % 12
			if hv == 0 {
				hv = 12
			}
		}
		pad := f.Hour == TwoDigit || (!hour12 && (f.Minute != "" || f.Second != ""))
		parts = append(parts, num(hv, pad))
	}
	if f.Minute != "" {
		parts = append(parts, num(mi, f.Hour != "" || f.Minute == TwoDigit))
	}
	if f.Second != "" {
		parts = append(parts, num(s, len(parts) > 0 || f.Second == TwoDigit))
	}

	out := strings.Join(parts, ":")
	if f.Hour != "" && hour12 {
		if h < 12 {
			out += " AM"
		} else {
			out += " PM"
		}
	}
	return out
}

func num(v int, pad bool) string {
	if pad {
		return fmt.Sprintf("%02d", v)
	}
	return fmt.Sprint(v)
}

func join(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func initial(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r))
}
