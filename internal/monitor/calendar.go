package monitor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"PortSentinel/internal/model"
)

type knownEvent struct {
	Type            model.EventType
	Impact          model.EventImpact
	AffectedSectors []string
	Description     string
}

// Recurring events worth flagging whenever search results mention them.
// Matching follows knownEventOrder so results are deterministic.
var knownEventOrder = []string{"FOMC", "CPI", "NFP", "GDP", "Fed Chair Speech", "Retail Sales"}

var knownEvents = map[string]knownEvent{
	"FOMC": {
		Type:            model.EventFed,
		Impact:          model.ImpactHigh,
		AffectedSectors: []string{"precious_metals", "tech", "financials"},
		Description:     "Federal Reserve interest rate decision",
	},
	"CPI": {
		Type:            model.EventEconomic,
		Impact:          model.ImpactHigh,
		AffectedSectors: []string{"precious_metals", "tech"},
		Description:     "Consumer Price Index inflation data",
	},
	"NFP": {
		Type:            model.EventEconomic,
		Impact:          model.ImpactHigh,
		AffectedSectors: []string{"all"},
		Description:     "Non-Farm Payrolls jobs report",
	},
	"GDP": {
		Type:            model.EventEconomic,
		Impact:          model.ImpactMedium,
		AffectedSectors: []string{"all"},
		Description:     "Gross Domestic Product report",
	},
	"Fed Chair Speech": {
		Type:            model.EventFed,
		Impact:          model.ImpactMedium,
		AffectedSectors: []string{"precious_metals", "tech", "financials"},
		Description:     "Federal Reserve Chair public remarks",
	},
	"Retail Sales": {
		Type:            model.EventEconomic,
		Impact:          model.ImpactMedium,
		AffectedSectors: []string{"consumer", "tech"},
		Description:     "Monthly retail sales data",
	},
}

// EventCalendar finds scheduled economic events through web search.
type EventCalendar struct {
	search Searcher
	now    func() time.Time
	log    zerolog.Logger
}

// NewEventCalendar creates an event calendar monitor.
func NewEventCalendar(search Searcher, log zerolog.Logger) *EventCalendar {
	return &EventCalendar{
		search: search,
		now:    time.Now,
		log:    log.With().Str("component", "calendar").Logger(),
	}
}

// UpcomingEvents returns scheduled events found via search, deduplicated
// by name and sorted by date. Without a search backend it returns nothing.
func (c *EventCalendar) UpcomingEvents() []model.ScheduledEvent {
	if c.search == nil || !c.search.Enabled() {
		return nil
	}

	events := c.searchEconomicCalendar()
	events = append(events, c.searchFedEvents()...)

	seen := make(map[string]bool)
	var unique []model.ScheduledEvent
	for _, e := range events {
		key := strings.ToLower(e.Name)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, e)
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Date.Before(unique[j].Date)
	})
	return unique
}

func (c *EventCalendar) searchEconomicCalendar() []model.ScheduledEvent {
	query := fmt.Sprintf(`US economic calendar this week %s:
- FOMC Federal Reserve meeting
- CPI inflation report
- Jobs report NFP
- GDP data
- Fed Chair Powell speech
- Retail sales`, c.now().Format("January 2, 2006"))

	results, err := c.search.Search(query, 5)
	if err != nil {
		c.log.Warn().Err(err).Msg("calendar search failed")
		return nil
	}

	var events []model.ScheduledEvent
	for _, r := range results {
		if e := c.parseEvent(r.Title, r.Content); e != nil {
			events = append(events, *e)
		}
	}
	return events
}

func (c *EventCalendar) searchFedEvents() []model.ScheduledEvent {
	results, err := c.search.Search("Federal Reserve FOMC meeting schedule Powell speech this week", 3)
	if err != nil {
		c.log.Warn().Err(err).Msg("fed events search failed")
		return nil
	}

	var events []model.ScheduledEvent
	for _, r := range results {
		content := strings.ToLower(r.Content)
		for _, kw := range []string{"fomc", "federal reserve", "powell", "rate decision"} {
			if strings.Contains(content, kw) {
				desc := r.Content
				if len(desc) > 200 {
					desc = desc[:200]
				}
				events = append(events, model.ScheduledEvent{
					Name:   "Fed Event Detected",
					Type:   model.EventFed,
					Date:   c.now().AddDate(0, 0, 1),
					Impact: model.ImpactHigh,
					// Exact date is unknown, approximate to tomorrow.
					Description:     desc,
					AffectedSectors: []string{"precious_metals", "tech", "financials"},
				})
				break
			}
		}
	}
	return events
}

// parseEvent matches search text against the known-event table. Every
// word of the event name must appear in the text.
func (c *EventCalendar) parseEvent(title, content string) *model.ScheduledEvent {
	combined := strings.ToLower(title + " " + content)

	for _, name := range knownEventOrder {
		info := knownEvents[name]
		matched := true
		for _, kw := range strings.Fields(strings.ToLower(name)) {
			if !strings.Contains(combined, kw) {
				matched = false
				break
			}
		}
		if matched {
			return &model.ScheduledEvent{
				Name:            name,
				Type:            info.Type,
				Date:            c.now().AddDate(0, 0, 1),
				Impact:          info.Impact,
				Description:     info.Description,
				AffectedSectors: info.AffectedSectors,
			}
		}
	}
	return nil
}

// MatchEventsToHoldings fills each event's AffectedTickers from the
// portfolio. The "all" sector matches every holding.
func MatchEventsToHoldings(events []model.ScheduledEvent, p *model.Portfolio) []model.ScheduledEvent {
	sectors := make(map[string]bool)
	for _, s := range p.Sectors() {
		sectors[s] = true
	}

	for i := range events {
		var tickers []string
		for _, sector := range events[i].AffectedSectors {
			if sector == "all" {
				for _, t := range p.Tickers() {
					tickers = appendUnique(tickers, t)
				}
			} else if sectors[sector] {
				for _, h := range p.HoldingsBySector(sector) {
					tickers = appendUnique(tickers, h.Ticker)
				}
			}
		}
		events[i].AffectedTickers = tickers
	}
	return events
}

var impactIcons = map[model.EventImpact]string{
	model.ImpactHigh:   "[!!!]",
	model.ImpactMedium: "[!!]",
	model.ImpactLow:    "[!]",
}

// FormatEventsForLLM renders up to 5 events as prompt context.
func FormatEventsForLLM(events []model.ScheduledEvent) string {
	if len(events) == 0 {
		return "No significant upcoming events detected."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("## Upcoming Events (%d found)\n\n", len(events)))

	shown := events
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, e := range shown {
		icon, ok := impactIcons[e.Impact]
		if !ok {
			icon = "[?]"
		}
		b.WriteString(fmt.Sprintf("### %s %s\n", icon, e.Name))
		b.WriteString(fmt.Sprintf("    Type: %s\n", strings.ToUpper(string(e.Type))))
		b.WriteString(fmt.Sprintf("    Impact: %s\n", strings.ToUpper(string(e.Impact))))
		b.WriteString(fmt.Sprintf("    Sectors: %s\n", strings.Join(e.AffectedSectors, ", ")))
		if len(e.AffectedTickers) > 0 {
			b.WriteString(fmt.Sprintf("    Your Holdings: %s\n", strings.Join(e.AffectedTickers, ", ")))
		}
		b.WriteString(fmt.Sprintf("    %s\n\n", e.Description))
	}
	return b.String()
}
