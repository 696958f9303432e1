package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

// caldavHorizon bounds the time-range query; CalDAV has no open-ended ranges.
const caldavHorizon = 10 * 365 * 24 * time.Hour

type CalDAVProvider struct {
	client    *caldav.Client
	serverURL string
}

func NewCalDAVProvider(ctx context.Context, serverURL, username, password string) (*CalDAVProvider, error) {
	baseURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CalDAV server URL: %w", err)
	}

	// Create HTTP client with authentication if needed
	var httpClient webdav.HTTPClient = http.DefaultClient
	if username != "" && password != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, username, password)
	}

	c, err := caldav.NewClient(httpClient, baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}

	// Test connection
	_, err = c.FindCalendars(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CalDAV server: %w", err)
	}

	return &CalDAVProvider{
		client:    c,
		serverURL: serverURL,
	}, nil
}

func (c *CalDAVProvider) GetCalendar(ctx context.Context, calendarID string) error {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return fmt.Errorf("invalid calendar URL: %w", err)
	}

	// The home set is usually the parent path
	homeSetPath := "/"
	if calURL.Path != "" {
		parts := strings.Split(strings.TrimRight(calURL.Path, "/"), "/")
		if len(parts) > 1 {
			homeSetPath = "/" + strings.Join(parts[:len(parts)-1], "/")
		}
	}

	calendars, err := c.client.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if strings.TrimRight(cal.Path, "/") == strings.TrimRight(calURL.Path, "/") {
			return nil
		}
	}

	return fmt.Errorf("calendar not found at path: %s", calURL.Path)
}

func (c *CalDAVProvider) AddEvent(ctx context.Context, calendarID string, event *Event) (string, error) {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return "", fmt.Errorf("invalid calendar URL: %w", err)
	}

	eventUID := "gcaltimetable-" + uuid.NewString()

	icalEvent := ical.NewEvent()
	icalEvent.Component.Props.SetText("UID", eventUID)
	icalEvent.Component.Props.SetDateTime("DTSTAMP", time.Now().UTC())
	icalEvent.Component.Props.SetText("SUMMARY", event.Summary)
	icalEvent.Component.Props.SetText("LOCATION", event.Location)
	icalEvent.Component.Props.SetText("DESCRIPTION", event.Description)
	icalEvent.Component.Props.SetDateTime("DTSTART", event.Start)
	icalEvent.Component.Props.SetDateTime("DTEND", event.End)
	icalEvent.Component.Props.SetText("STATUS", "CONFIRMED")

	calendar := ical.NewCalendar()
	calendar.Component.Props.SetText("PRODID", "-//gcaltimetable//EN")
	calendar.Component.Props.SetText("VERSION", "2.0")
	calendar.Component.Children = append(calendar.Component.Children, icalEvent.Component)

	path := strings.TrimRight(calURL.Path, "/") + "/" + eventUID + ".ics"

	_, err = c.client.PutCalendarObject(ctx, path, calendar)
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	return path, nil
}

// DeleteEvent accepts either an object path as returned by ListEvents or a bare UID.
func (c *CalDAVProvider) DeleteEvent(ctx context.Context, calendarID string, eventID string) error {
	path := eventID
	if !strings.HasPrefix(eventID, "/") {
		calURL, err := url.Parse(calendarID)
		if err != nil {
			return fmt.Errorf("invalid calendar URL: %w", err)
		}
		path = strings.TrimRight(calURL.Path, "/") + "/" + eventID + ".ics"
	}

	err := c.client.Client.RemoveAll(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}

// ListEvents has no server-side paging; results are sorted by start and cut at limit.
func (c *CalDAVProvider) ListEvents(ctx context.Context, calendarID string, timeMin time.Time, limit int, pageToken string) ([]*Event, string, error) {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid calendar URL: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: timeMin,
				End:   timeMin.Add(caldavHorizon),
			}},
		},
	}

	objects, err := c.client.QueryCalendar(ctx, calURL.Path, query)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list events: %w", err)
	}

	var result []*Event
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, comp := range obj.Data.Component.Children {
			if comp.Name != "VEVENT" {
				continue
			}
			result = append(result, eventFromComponent(obj.Path, comp))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, "", nil
}

func eventFromComponent(path string, comp *ical.Component) *Event {
	status := getTextProp(comp.Props, "STATUS")
	if status == "" {
		status = "confirmed"
	} else {
		status = strings.ToLower(status)
	}

	start, _ := comp.Props.DateTime("DTSTART", time.UTC)
	end, _ := comp.Props.DateTime("DTEND", time.UTC)

	return &Event{
		ID:          path,
		Summary:     getTextProp(comp.Props, "SUMMARY"),
		Location:    getTextProp(comp.Props, "LOCATION"),
		Description: getTextProp(comp.Props, "DESCRIPTION"),
		Start:       start,
		End:         end,
		Status:      status,
	}
}

// getTextProp returns the unescaped value of a property, or "" if it is missing.
func getTextProp(props ical.Props, name string) string {
	prop := props.Get(name)
	if prop == nil {
		return ""
	}
	text, err := prop.Text()
	if err != nil {
		return prop.Value
	}
	return text
}
