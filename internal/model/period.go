package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Period identifies a reporting period. Quarter 0 denotes the full year.
type Period struct {
	Year    int `json:"year" yaml:"year"`
	Quarter int `json:"quarter" yaml:"quarter"`
}

// IsAnnual reports whether p covers a full year.
func (p Period) IsAnnual() bool { return p.Quarter == 0 }

// YearLabel returns the year as a series key.
func (p Period) YearLabel() string { return strconv.Itoa(p.Year) }

// QuarterLabel returns "Q1".."Q4", or "" for annual periods.
func (p Period) QuarterLabel() string {
	if p.IsAnnual() {
		return ""
	}
	return fmt.Sprintf("Q%d", p.Quarter)
}

// Key returns the storage key: "2024" for annual periods, "2024_Q1" for quarters.
func (p Period) Key() string {
	if p.IsAnnual() {
		return p.YearLabel()
	}
	return p.YearLabel() + "_" + p.QuarterLabel()
}

// ParsePeriodKey parses "2024" or "2024_Q3".
func ParsePeriodKey(key string) (Period, error) {
	yearPart, quarterPart, hasQuarter := strings.Cut(strings.TrimSpace(key), "_")
	year, err := ParseYear(yearPart)
	if err != nil {
		return Period{}, eris.Wrapf(err, "model: parse period %q", key)
	}
	if !hasQuarter {
		return Period{Year: year}, nil
	}
	q, err := ParseQuarter(quarterPart)
	if err != nil {
		return Period{}, eris.Wrapf(err, "model: parse period %q", key)
	}
	return Period{Year: year, Quarter: q}, nil
}

// ParseYear parses a four-digit year token.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return 0, eris.Errorf("model: invalid year %q", s)
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Errorf("model: invalid year %q", s)
	}
	return y, nil
}

// ParseQuarter parses "Q1".."Q4" (case-insensitive) or a bare digit.
func ParseQuarter(s string) (int, error) {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "Q")
	q, err := strconv.Atoi(s)
	if err != nil || q < 1 || q > 4 {
		return 0, eris.Errorf("model: invalid quarter %q", s)
	}
	return q, nil
}

// QuarterKey formats the forecast-override label for a year/quarter pair.
func QuarterKey(year, quarter string) string {
	return year + "_" + quarter
}
