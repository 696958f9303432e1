package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseDate accepts YYYY-MM-DD or an English expression such as "next monday",
// resolved against base. The result is midnight of that day in loc.
func parseDate(input string, base time.Time, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(time.DateOnly, input, loc); err == nil {
		return t, nil
	}
	if strings.EqualFold(input, "today") {
		t := base.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
	}

	result, err := dateParser.Parse(input, base.In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("can't parse date %q: %w", input, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("can't parse date %q", input)
	}
	t := result.Time.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}
